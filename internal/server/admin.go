package server

import (
	"net/http"

	"ladangwatch/internal/policy"
	"ladangwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// requireManager loads the session and enforces the user-management
// capability shared by every admin handler.
func (s *Service) requireManager(w http.ResponseWriter, r *http.Request) (*types.Session, bool) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return nil, false
	}

	if session.Profile == nil {
		s.respondProfileRequired(w)
		return nil, false
	}

	if !policy.CanManageUsers(session.Profile) {
		s.respondError(w, types.NewAuthorizationError("managing users is not permitted"))
		return nil, false
	}

	return session, true
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w, r); !ok {
		return
	}

	profiles, err := s.profileRepo.Profiles(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch profiles")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"users": profiles})
}

type createUserRequest struct {
	Email    string        `json:"email" validate:"required,email"`
	Password string        `json:"password" validate:"required,min=8"`
	Role     types.Role    `json:"role" validate:"required"`
	Region   *types.Region `json:"region"`
}

// handleCreateUser provisions the Cognito identity, then writes its
// profile through the privileged RPC. Role/region validation runs first so
// a bad request never creates a half-provisioned identity.
func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w, r); !ok {
		return
	}

	var req createUserRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.validateStruct(req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := validateRoleRegion(req.Role, req.Region); err != nil {
		s.respondError(w, err)
		return
	}

	createOut, err := s.cognitoClient.AdminCreateUser(r.Context(), &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:    aws.String(s.config.CognitoUserPoolID),
		Username:      aws.String(req.Email),
		MessageAction: ctypes.MessageActionTypeSuppress,
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(req.Email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to create cognito user")
		s.respondError(w, types.NewTransportError(err, "failed to create user"))
		return
	}

	userID := cognitoSub(createOut)
	if userID == "" {
		s.respondError(w, types.NewTransportErrorf("cognito returned no subject for %s", req.Email))
		return
	}

	_, err = s.cognitoClient.AdminSetUserPassword(r.Context(), &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(s.config.CognitoUserPoolID),
		Username:   aws.String(req.Email),
		Password:   aws.String(req.Password),
		Permanent:  true,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to set user password")
		s.respondError(w, types.NewTransportError(err, "failed to set user password"))
		return
	}

	if err := s.adminRepo.CreateUserWithProfile(r.Context(), userID, req.Email, req.Role, req.Region); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to create profile for new user")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"id":     userID,
		"email":  req.Email,
		"role":   req.Role,
		"region": req.Region,
	})
}

type updateUserRequest struct {
	Role   types.Role    `json:"role" validate:"required"`
	Region *types.Region `json:"region"`
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w, r); !ok {
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		s.respondError(w, types.NewValidationError("user id is required"))
		return
	}

	var req updateUserRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if err := validateRoleRegion(req.Role, req.Region); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.adminRepo.UpdateUserRoleAndRegion(r.Context(), targetID, req.Role, req.Region); err != nil {
		s.logger.WithError(err).WithField("target_id", targetID).Error("failed to update user role")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":     targetID,
		"role":   req.Role,
		"region": req.Region,
	})
}

// handleDeleteUser removes the profile row only. The Cognito identity
// remains and can still authenticate; it will land back in profile setup.
func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w, r); !ok {
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		s.respondError(w, types.NewValidationError("user id is required"))
		return
	}

	if err := s.profileRepo.Delete(r.Context(), targetID); err != nil {
		s.logger.WithError(err).WithField("target_id", targetID).Error("failed to delete profile")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func validateRoleRegion(role types.Role, region *types.Region) error {
	probe := types.Profile{ID: "pending", Role: role, Region: region}
	return probe.Validate()
}

func cognitoSub(out *cognitoidentityprovider.AdminCreateUserOutput) string {
	if out == nil || out.User == nil {
		return ""
	}

	for _, attr := range out.User.Attributes {
		if aws.ToString(attr.Name) == "sub" {
			return aws.ToString(attr.Value)
		}
	}
	return ""
}
