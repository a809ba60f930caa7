package client

import (
	"sync"

	"ecofinds/internal/domain"
)

// AuthPhase es el estado derivado del contenedor de autenticacion.
type AuthPhase int

const (
	PhaseCheckingAuth AuthPhase = iota
	PhaseUnauthenticated
	PhaseAuthenticatedUnverified
	PhaseAuthenticatedVerified
)

// GuardDecision es la decision de navegacion que consume la capa de UI.
type GuardDecision int

const (
	GuardAllow GuardDecision = iota
	GuardSuspend
	GuardRedirectLogin
	GuardRedirectVerify
	GuardRedirectHome
)

// AuthState es el contenedor unico de estado de autenticacion del proceso
// cliente. Solo lo mutan los completion handlers de las llamadas de auth;
// arranca en checking-auth y la comprobacion inicial lo resuelve una sola vez.
type AuthState struct {
	mu              sync.Mutex
	user            *domain.SanitizedUser
	isAuthenticated bool
	isCheckingAuth  bool
	isLoading       bool
	errMsg          string
	resolved        bool
}

func NewAuthState() *AuthState {
	return &AuthState{isCheckingAuth: true}
}

// Phase deriva el estado actual de la maquina.
func (s *AuthState) Phase() AuthPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

func (s *AuthState) phaseLocked() AuthPhase {
	switch {
	case s.isCheckingAuth:
		return PhaseCheckingAuth
	case !s.isAuthenticated || s.user == nil:
		return PhaseUnauthenticated
	case s.user.IsVerified:
		return PhaseAuthenticatedVerified
	default:
		return PhaseAuthenticatedUnverified
	}
}

// User devuelve el usuario actual, o nil si no hay sesion.
func (s *AuthState) User() *domain.SanitizedUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err devuelve el ultimo error de una llamada de auth, o "".
func (s *AuthState) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// IsLoading indica si hay una llamada de auth en vuelo.
func (s *AuthState) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// GuardProtected decide la navegacion hacia una ruta protegida.
// Verificado entra; sin verificar va al flujo de verificacion; sin sesion
// va a login; durante la comprobacion inicial se suspende la decision.
func (s *AuthState) GuardProtected() GuardDecision {
	switch s.Phase() {
	case PhaseCheckingAuth:
		return GuardSuspend
	case PhaseUnauthenticated:
		return GuardRedirectLogin
	case PhaseAuthenticatedUnverified:
		return GuardRedirectVerify
	default:
		return GuardAllow
	}
}

// GuardAuthEntry decide la navegacion hacia login/signup. Solo el estado
// verificado redirige al home; un usuario autenticado sin verificar sigue
// viendo estas rutas, igual que en el comportamiento observado.
func (s *AuthState) GuardAuthEntry() GuardDecision {
	switch s.Phase() {
	case PhaseCheckingAuth:
		return GuardSuspend
	case PhaseAuthenticatedVerified:
		return GuardRedirectHome
	default:
		return GuardAllow
	}
}

func (s *AuthState) beginCall() {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *AuthState) completeAuthenticated(user domain.SanitizedUser) {
	s.mu.Lock()
	s.user = &user
	s.isAuthenticated = true
	s.isLoading = false
	s.resolveLocked()
	s.mu.Unlock()
}

func (s *AuthState) completeUnauthenticated() {
	s.mu.Lock()
	s.user = nil
	s.isAuthenticated = false
	s.isLoading = false
	s.resolveLocked()
	s.mu.Unlock()
}

func (s *AuthState) completeError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.isLoading = false
	s.mu.Unlock()
}

func (s *AuthState) resolveLocked() {
	if !s.resolved {
		s.resolved = true
		s.isCheckingAuth = false
	}
}
