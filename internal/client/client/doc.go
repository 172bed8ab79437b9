// Package client talks to the DentaCare HTTP API.
//
// # Overview
//
// Client is the transport-agnostic contract the services depend on:
// Register, Login, Me (identity fetch with a bearer token) and SendChat.
// HTTPClient implements it with resty on top of a retryablehttp transport.
//
// Endpoints
//
//	POST /auth/register   body RegistrationRequest, 2xx on success
//	POST /auth/login      body Credentials, returns {token, user}
//	GET  /api/user/me     Authorization: Bearer <token>, returns User
//	POST /api/chat        Authorization: Bearer <token>, body {message}
//
// # Error Handling
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrNetwork when no response arrived, ErrAuthentication for 401 or 403 on
// login and register, ErrSessionExpired for 401 or 403 on the bearer
// endpoints, ErrServer for 5xx and ErrInvalidResponse for malformed 2xx
// bodies. Non-2xx answers are *APIError values carrying the status and the
// body's "error" message; see ServiceMessage. Other 4xx answers match none
// of the sentinels.
//
// Retries
//
// Only GET requests are retried, on connection failures, 429 and 5xx. POST
// requests are sent once, so a registration is never submitted twice.
package client
