package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ladangwatch/internal"
	"ladangwatch/internal/policy"
	"ladangwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stubProfileStore struct {
	list []*types.Profile // newest first

	mu     sync.Mutex // guards synced; SyncEmail runs on the event consumer goroutine
	synced map[string]string
}

func newStubProfileStore() *stubProfileStore {
	return &stubProfileStore{synced: map[string]string{}}
}

func (s *stubProfileStore) find(id string) *types.Profile {
	for _, p := range s.list {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *stubProfileStore) Profile(_ context.Context, id string) (*types.Profile, error) {
	if p := s.find(id); p != nil {
		return p, nil
	}
	return nil, types.ErrProfileNotFound
}

func (s *stubProfileStore) Profiles(context.Context) ([]*types.Profile, error) {
	return s.list, nil
}

func (s *stubProfileStore) Create(_ context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if s.find(profile.ID) != nil {
		return types.NewConflictError("a profile already exists for this identity")
	}
	s.list = append([]*types.Profile{profile}, s.list...)
	return nil
}

func (s *stubProfileStore) SyncEmail(_ context.Context, id, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced[id] = email
	return nil
}

func (s *stubProfileStore) syncedEmail(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced[id]
}

func (s *stubProfileStore) Delete(_ context.Context, id string) error {
	for i, p := range s.list {
		if p.ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return nil
		}
	}
	return types.ErrProfileNotFound
}

type stubReportStore struct {
	reports []*types.Report // newest first
	nextID  int
}

func (s *stubReportStore) Create(_ context.Context, report *types.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}
	s.nextID++
	report.ID = fmt.Sprintf("rpt-%d", s.nextID)
	s.reports = append([]*types.Report{report}, s.reports...)
	return nil
}

func (s *stubReportStore) Reports(_ context.Context, scope policy.Scope) ([]*types.Report, error) {
	out := make([]*types.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if scope.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

type adminCall struct {
	userID string
	role   types.Role
	region *types.Region
}

type stubAdminStore struct {
	created []adminCall
	updated []adminCall
	err     error
}

func (s *stubAdminStore) CreateUserWithProfile(_ context.Context, userID, _ string, role types.Role, region *types.Region) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, adminCall{userID: userID, role: role, region: region})
	return nil
}

func (s *stubAdminStore) UpdateUserRoleAndRegion(_ context.Context, targetID string, role types.Role, region *types.Region) error {
	if s.err != nil {
		return s.err
	}
	s.updated = append(s.updated, adminCall{userID: targetID, role: role, region: region})
	return nil
}

type stubEvidenceStore struct {
	uploads   []string
	failIndex int // 1-based upload that fails; 0 never fails
}

func (s *stubEvidenceStore) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	if s.failIndex > 0 && len(s.uploads)+1 == s.failIndex {
		return "", types.NewTransportErrorf("failed to upload evidence %s", key)
	}
	s.uploads = append(s.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

type stubCognito struct {
	sub          string
	accessToken  string
	signUps      int
	confirms     int
	initiates    int
	signOuts     int
	adminCreates int
	adminSetPwds int
}

func (c *stubCognito) SignUp(_ context.Context, _ *cognitoidentityprovider.SignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	c.signUps++
	return &cognitoidentityprovider.SignUpOutput{}, nil
}

func (c *stubCognito) ConfirmSignUp(_ context.Context, _ *cognitoidentityprovider.ConfirmSignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error) {
	c.confirms++
	return &cognitoidentityprovider.ConfirmSignUpOutput{}, nil
}

func (c *stubCognito) InitiateAuth(_ context.Context, _ *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	c.initiates++
	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &ctypes.AuthenticationResultType{
			AccessToken: aws.String(c.accessToken),
			ExpiresIn:   3600,
		},
	}, nil
}

func (c *stubCognito) GlobalSignOut(_ context.Context, _ *cognitoidentityprovider.GlobalSignOutInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error) {
	c.signOuts++
	return &cognitoidentityprovider.GlobalSignOutOutput{}, nil
}

func (c *stubCognito) AdminCreateUser(_ context.Context, _ *cognitoidentityprovider.AdminCreateUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error) {
	c.adminCreates++
	return &cognitoidentityprovider.AdminCreateUserOutput{
		User: &ctypes.UserType{
			Attributes: []ctypes.AttributeType{
				{Name: aws.String("sub"), Value: aws.String(c.sub)},
			},
		},
	}, nil
}

func (c *stubCognito) AdminSetUserPassword(_ context.Context, _ *cognitoidentityprovider.AdminSetUserPasswordInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error) {
	c.adminSetPwds++
	return &cognitoidentityprovider.AdminSetUserPasswordOutput{}, nil
}

type testEnv struct {
	service  *Service
	profiles *stubProfileStore
	reports  *stubReportStore
	admin    *stubAdminStore
	evidence *stubEvidenceStore
	cognito  *stubCognito
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	config := &types.Config{
		ServerPort:        8080,
		CognitoUserPoolID: "test-pool",
		CognitoClientID:   "test-client",
		CookieHashKey:     base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32)),
		CookieBlockKey:    base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x24}, 32)),
	}

	env := &testEnv{
		profiles: newStubProfileStore(),
		reports:  &stubReportStore{},
		admin:    &stubAdminStore{},
		evidence: &stubEvidenceStore{},
		cognito:  &stubCognito{sub: "new-user-sub", accessToken: "issued-token"},
	}

	service, err := New(
		config,
		logger,
		env.cognito,
		env.profiles,
		env.reports,
		env.admin,
		env.evidence,
		nil,
		"",
	)
	require.NoError(t, err)

	// The stubbed access token is the identity's ID; tests never hit JWKS.
	service.verifyToken = func(_ context.Context, accessToken string) (types.Identity, error) {
		return types.Identity{ID: accessToken, Email: accessToken + "@example.com"}, nil
	}

	env.service = service
	return env
}

func (e *testEnv) addProfile(t *testing.T, id string, role types.Role, region *types.Region) *types.Profile {
	t.Helper()
	profile := &types.Profile{ID: id, Email: id + "@example.com", Role: role, Region: region}
	require.NoError(t, profile.Validate())
	e.profiles.list = append([]*types.Profile{profile}, e.profiles.list...)
	return profile
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.service.server.Handler.ServeHTTP(rr, req)
	return rr
}

// authedRequest builds a request carrying a valid encrypted access-token
// cookie for the given identity.
func (e *testEnv) authedRequest(t *testing.T, method, target, userID string, body io.Reader) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	encoded, err := e.service.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, userID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: internal.COOKIE_ACCESS_TOKEN_NAME, Value: encoded})
	return req
}

func (e *testEnv) authedJSONRequest(t *testing.T, method, target, userID string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := e.authedRequest(t, method, target, userID, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

type multipartSubmission struct {
	fields map[string]string
	photos []string // file contents, attached in order
}

func buildMultipart(t *testing.T, sub multipartSubmission) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range sub.fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for i, content := range sub.photos {
		part, err := writer.CreateFormFile("photos", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func validSubmissionFields() map[string]string {
	return map[string]string{
		"unit":               "ABM",
		"region":             "TWU",
		"category":           "Kecurian",
		"incident_date":      "2025-08-14",
		"incident_time":      "02:30",
		"loss_estimation_kg": "12.5",
		"supervisor_phone":   "+60123456789",
		"summary":            "Fence cut overnight",
	}
}
