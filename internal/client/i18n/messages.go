package i18n

// Message keys used by the client.
const (
	CommonError           = "common.error"
	CommonSuccess         = "common.success"
	CommonWelcome         = "common.welcome"
	CommonAppName         = "common.appName"
	CommonAppSubtitle     = "common.appSubtitle"
	NavLogin              = "nav.login"
	NavLogout             = "nav.logout"
	NavRegister           = "nav.register"
	LoginTitle            = "auth.login.title"
	LoginSuccess          = "auth.login.success"
	LoginError            = "auth.login.error"
	RegisterTitle         = "auth.register.title"
	RegisterSuccess       = "auth.register.success"
	RegisterError         = "auth.register.error"
	DashboardWelcome      = "dashboard.welcome"
	UserRoleDefault       = "layouts.default.userRoleDefault"
	LogoutConfirmTitle    = "layouts.default.logoutConfirm.title"
	SessionExpired        = "auth.session.expired"
	ChatUnusualResponse   = "chat.unusualResponse"
	ChatConnectionTrouble = "chat.connectionTrouble"
	ChatNotAuthenticated  = "chat.notAuthenticated"
)

var en = map[string]string{
	CommonError:           "Error",
	CommonSuccess:         "Success",
	CommonWelcome:         "Welcome",
	CommonAppName:         "DentaCare",
	CommonAppSubtitle:     "Dental Clinic Management",
	NavLogin:              "Login",
	NavLogout:             "Logout",
	NavRegister:           "Register",
	LoginTitle:            "Sign in to your account",
	LoginSuccess:          "Successfully signed in!",
	LoginError:            "Invalid credentials. Please try again.",
	RegisterTitle:         "Create your account",
	RegisterSuccess:       "Account created successfully! Please sign in.",
	RegisterError:         "Registration failed. Please try again.",
	DashboardWelcome:      "Welcome back, {name}",
	UserRoleDefault:       "User",
	LogoutConfirmTitle:    "Confirm Logout",
	SessionExpired:        "Your session has expired. Please sign in again.",
	ChatUnusualResponse:   "Sorry, I received an unusual response. Please try again.",
	ChatConnectionTrouble: "I'm having trouble connecting right now. Please try again later.",
	ChatNotAuthenticated:  "User is not authenticated.",
}

var fr = map[string]string{
	CommonError:           "Erreur",
	CommonSuccess:         "Succès",
	CommonWelcome:         "Bienvenue",
	CommonAppName:         "DentaCare",
	CommonAppSubtitle:     "Gestion de cabinet dentaire",
	NavLogin:              "Connexion",
	NavLogout:             "Déconnexion",
	NavRegister:           "Inscription",
	LoginTitle:            "Connectez-vous à votre compte",
	LoginSuccess:          "Connexion réussie !",
	LoginError:            "Identifiants invalides. Veuillez réessayer.",
	RegisterTitle:         "Créez votre compte",
	RegisterSuccess:       "Compte créé avec succès ! Veuillez vous connecter.",
	RegisterError:         "L'inscription a échoué. Veuillez réessayer.",
	DashboardWelcome:      "Bon retour, {name}",
	UserRoleDefault:       "Utilisateur",
	LogoutConfirmTitle:    "Confirmer la déconnexion",
	SessionExpired:        "Votre session a expiré. Veuillez vous reconnecter.",
	ChatUnusualResponse:   "Désolé, j'ai reçu une réponse inhabituelle. Veuillez réessayer.",
	ChatConnectionTrouble: "J'ai du mal à me connecter pour le moment. Veuillez réessayer plus tard.",
}
