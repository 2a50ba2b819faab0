package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"ladangwatch/internal/policy"
	"ladangwatch/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// ProfileStore is the profile access contract the shell depends on.
type ProfileStore interface {
	Profile(ctx context.Context, profileID string) (*types.Profile, error)
	Profiles(ctx context.Context) ([]*types.Profile, error)
	Create(ctx context.Context, profile *types.Profile) error
	SyncEmail(ctx context.Context, profileID, email string) error
	Delete(ctx context.Context, profileID string) error
}

type ReportStore interface {
	Create(ctx context.Context, report *types.Report) error
	Reports(ctx context.Context, scope policy.Scope) ([]*types.Report, error)
}

type AdminStore interface {
	CreateUserWithProfile(ctx context.Context, userID, email string, role types.Role, region *types.Region) error
	UpdateUserRoleAndRegion(ctx context.Context, targetID string, role types.Role, region *types.Region) error
}

type EvidenceStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// CognitoClient is the slice of the Cognito API the shell uses.
type CognitoClient interface {
	SignUp(ctx context.Context, input *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, input *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, input *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, input *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
	AdminCreateUser(ctx context.Context, input *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, input *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	cognitoClient CognitoClient
	profileRepo   ProfileStore
	reportRepo    ReportStore
	adminRepo     AdminStore
	evidence      EvidenceStore

	cookie   *securecookie.SecureCookie
	validate *validator.Validate

	jwksCache *jwk.Cache
	jwksURL   string

	// verifyToken defaults to JWKS-backed verification; tests swap it.
	verifyToken func(ctx context.Context, accessToken string) (types.Identity, error)

	events chan sessionEvent

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoClient,
	profileRepo ProfileStore,
	reportRepo ReportStore,
	adminRepo AdminStore,
	evidence EvidenceStore,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:   logger,
		config:   config,
		cookie:   securecookie.New(hashKey, blockKey),
		validate: validator.New(),

		cognitoClient: cognitoClient,
		profileRepo:   profileRepo,
		reportRepo:    reportRepo,
		adminRepo:     adminRepo,
		evidence:      evidence,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,

		events: make(chan sessionEvent, 64),

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.verifyToken = s.verifyAccessToken

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/auth/signup", s.handleSignup, http.MethodPost)
	r.HandleFunc("/auth/confirm", s.handleConfirmSignup, http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout, http.MethodPost)

	r.HandleFunc("/api/meta", s.handleGetMeta, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/session", s.handleGetSession, http.MethodGet)
		r.HandleFunc("/api/session/view", s.handlePutSessionView, http.MethodPut)

		r.HandleFunc("/api/profile", s.handleSetupProfile, http.MethodPost)

		r.HandleFunc("/api/reports", s.handleSubmitReport, http.MethodPost)
		r.HandleFunc("/api/reports", s.handleListReports, http.MethodGet)
		r.HandleFunc("/api/reports/export", s.handleExportReports, http.MethodGet)

		r.HandleFunc("/api/admin/users", s.handleListUsers, http.MethodGet)
		r.HandleFunc("/api/admin/users", s.handleCreateUser, http.MethodPost)
		r.HandleFunc("/api/admin/users/:id", s.handleUpdateUser, http.MethodPut)
		r.HandleFunc("/api/admin/users/:id", s.handleDeleteUser, http.MethodDelete)
	})
}
