package server

import (
	"net/http"

	"ladangwatch/internal"
	"ladangwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.validateStruct(req); err != nil {
		s.respondError(w, err)
		return
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(req.Email), // use email as username
		Password: aws.String(req.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(req.Email)},
		},
	}

	_, err := s.cognitoClient.SignUp(r.Context(), input)
	if err != nil {
		s.logger.WithError(err).Error("failed to sign up user")
		s.respondError(w, types.NewTransportError(err, "failed to sign up"))
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"email":                 req.Email,
		"confirmation_required": true,
	})
}

type confirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

func (s *Service) handleConfirmSignup(w http.ResponseWriter, r *http.Request) {
	var req confirmSignupRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.validateStruct(req); err != nil {
		s.respondError(w, err)
		return
	}

	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(req.Email),
		ConfirmationCode: aws.String(req.Code),
	}

	_, err := s.cognitoClient.ConfirmSignUp(r.Context(), input)
	if err != nil {
		s.logger.WithError(err).Error("failed to confirm user signup")
		s.respondError(w, types.NewTransportError(err, "failed to confirm signup"))
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.validateStruct(req); err != nil {
		s.respondError(w, err)
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": req.Email,
			"PASSWORD": req.Password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), input)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "login failed"})
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	identity, err := s.verifyToken(r.Context(), accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to verify freshly issued token")
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "login failed"})
		return
	}
	if identity.Email == "" {
		identity.Email = req.Email
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.respondError(w, types.NewTransportError(err, "failed to establish session"))
		return
	}

	// Set httpOnly, secure cookie with access token
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	s.enqueueSessionEvent(sessionEvent{kind: sessionSignedIn, identity: identity})

	s.respondJSON(w, http.StatusOK, map[string]any{"identity": identity})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err == nil {
		var accessToken string
		if err := s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken); err == nil {
			_, err = s.cognitoClient.GlobalSignOut(r.Context(), &cognitoidentityprovider.GlobalSignOutInput{
				AccessToken: aws.String(accessToken),
			})
			if err != nil {
				// The local session is torn down regardless.
				s.logger.WithError(err).Warn("failed to revoke cognito session")
			}
		}
	}

	s.clearSessionCookies(w)
	s.enqueueSessionEvent(sessionEvent{kind: sessionSignedOut})

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Service) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{internal.COOKIE_ACCESS_TOKEN_NAME, internal.COOKIE_VIEW_NAME} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}
