package server

import (
	"net/http"
	"testing"

	"ladangwatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminEndpointsExecutiveOnly(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "staff-twu", types.RoleStaff, regionPtr(types.RegionTWU))
	env.addProfile(t, "mgr-twu", types.RoleRegionManager, regionPtr(types.RegionTWU))

	for _, userID := range []string{"staff-twu", "mgr-twu"} {
		rr := env.do(t, env.authedRequest(t, http.MethodGet, "/api/admin/users", userID, nil))
		assert.Equal(t, http.StatusForbidden, rr.Code, userID)
	}

	// An identity without a profile is routed to setup, not forbidden.
	rr := env.do(t, env.authedRequest(t, http.MethodGet, "/api/admin/users", "no-profile", nil))
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "profile_required", decodeBody[errorResponse](t, rr).Code)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "staff-twu", types.RoleStaff, regionPtr(types.RegionTWU))
	env.addProfile(t, "exec", types.RoleExecutive, nil)

	rr := env.do(t, env.authedRequest(t, http.MethodGet, "/api/admin/users", "exec", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	listed := decodeBody[struct {
		Users []*types.Profile `json:"users"`
	}](t, rr)
	require.Len(t, listed.Users, 2)
	assert.Equal(t, "exec", listed.Users[0].ID)
}

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "exec", types.RoleExecutive, nil)

	rr := env.do(t, env.authedJSONRequest(t, http.MethodPost, "/api/admin/users", "exec", createUserRequest{
		Email:    "guard@example.com",
		Password: "s3cret-password",
		Role:     types.RoleStaff,
		Region:   regionPtr(types.RegionBFT),
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "new-user-sub", created["id"])

	assert.Equal(t, 1, env.cognito.adminCreates)
	assert.Equal(t, 1, env.cognito.adminSetPwds)

	require.Len(t, env.admin.created, 1)
	call := env.admin.created[0]
	assert.Equal(t, "new-user-sub", call.userID)
	assert.Equal(t, types.RoleStaff, call.role)
	require.NotNil(t, call.region)
	assert.Equal(t, types.RegionBFT, *call.region)
}

func TestAdminCreateUserValidatesBeforeProvisioning(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "exec", types.RoleExecutive, nil)

	tests := []struct {
		name string
		req  createUserRequest
	}{
		{
			name: "manager without region",
			req:  createUserRequest{Email: "m@example.com", Password: "s3cret-password", Role: types.RoleRegionManager},
		},
		{
			name: "executive with region",
			req:  createUserRequest{Email: "e@example.com", Password: "s3cret-password", Role: types.RoleExecutive, Region: regionPtr(types.RegionTWU)},
		},
		{
			name: "short password",
			req:  createUserRequest{Email: "s@example.com", Password: "short", Role: types.RoleStaff, Region: regionPtr(types.RegionTWU)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, env.authedJSONRequest(t, http.MethodPost, "/api/admin/users", "exec", tc.req))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	// No identity was ever provisioned for a rejected request.
	assert.Zero(t, env.cognito.adminCreates)
	assert.Empty(t, env.admin.created)
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "exec", types.RoleExecutive, nil)

	rr := env.do(t, env.authedJSONRequest(t, http.MethodPut, "/api/admin/users/target-1", "exec", updateUserRequest{
		Role:   types.RoleRegionManager,
		Region: regionPtr(types.RegionLD),
	}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, env.admin.updated, 1)
	call := env.admin.updated[0]
	assert.Equal(t, "target-1", call.userID)
	assert.Equal(t, types.RoleRegionManager, call.role)

	// The same pairing rule guards updates.
	rr = env.do(t, env.authedJSONRequest(t, http.MethodPut, "/api/admin/users/target-1", "exec", updateUserRequest{
		Role: types.RoleStaff,
	}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, env.admin.updated, 1)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, "exec", types.RoleExecutive, nil)
	env.addProfile(t, "staff-twu", types.RoleStaff, regionPtr(types.RegionTWU))

	rr := env.do(t, env.authedRequest(t, http.MethodDelete, "/api/admin/users/staff-twu", "exec", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Nil(t, env.profiles.find("staff-twu"))

	rr = env.do(t, env.authedRequest(t, http.MethodDelete, "/api/admin/users/staff-twu", "exec", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
