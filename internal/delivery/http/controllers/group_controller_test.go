package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencehub/internal/delivery/http/helpers"
	"conferencehub/internal/delivery/http/middleware"
	"conferencehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGroupService implements domain.GroupService for handler tests.
type fakeGroupService struct {
	createResult  *domain.Group
	createErr     error
	listResult    []*domain.Group
	listErr       error
	joinErr       error
	leaveErr      error
	membersResult []*domain.GroupMember
	membersErr    error
	lastName      string
	lastOwnerID   string
	lastGroupID   string
	lastUserID    string
}

func (f *fakeGroupService) CreateGroup(ctx context.Context, conferenceID, name, ownerID string) (*domain.Group, error) {
	f.lastName = name
	f.lastOwnerID = ownerID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeGroupService) ListGroups(ctx context.Context, conferenceID string) ([]*domain.Group, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeGroupService) JoinGroup(ctx context.Context, groupID, userID string) error {
	f.lastGroupID = groupID
	f.lastUserID = userID
	return f.joinErr
}

func (f *fakeGroupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	f.lastGroupID = groupID
	f.lastUserID = userID
	return f.leaveErr
}

func (f *fakeGroupService) ListMembers(ctx context.Context, groupID, callerID string) ([]*domain.GroupMember, error) {
	f.lastGroupID = groupID
	f.lastUserID = callerID
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.membersResult, nil
}

func TestGroupController_CreateGroup(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"name":"Gophers"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "name is required",
		},
		{
			name:           "conference not found",
			body:           `{"name":"Gophers"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "conference not found",
		},
		{
			name:           "service error",
			body:           `{"name":"Gophers"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGroupService{
				createResult: &domain.Group{ID: "group-1", ConferenceID: testConferenceID, Name: "Gophers", OwnerID: "user-123"},
				createErr:    tt.fakeErr,
			}
			ctrl := NewGroupController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/conferences/"+testConferenceID+"/groups", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("conferenceID", testConferenceID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.CreateGroup(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "user-123", fake.lastOwnerID)
				assert.Equal(t, "Gophers", fake.lastName)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestGroupController_ListGroups(t *testing.T) {
	fake := &fakeGroupService{
		listResult: []*domain.Group{
			{ID: "group-1", ConferenceID: testConferenceID, Name: "Gophers", OwnerID: "user-123"},
		},
	}
	ctrl := NewGroupController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "http://test/conferences/"+testConferenceID+"/groups", nil)
	req.SetPathValue("conferenceID", testConferenceID)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.ListGroups(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope struct {
		Data  []*domain.Group   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Gophers", envelope.Data[0].Name)
}

func TestGroupController_JoinGroup(t *testing.T) {
	tests := []struct {
		name           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			wantStatus: http.StatusOK,
		},
		{
			name:           "not registered for conference",
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "already a member",
			fakeErr:        domain.ErrAlreadyMember,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already a member",
		},
		{
			name:           "group not found",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "group not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGroupService{joinErr: tt.fakeErr}
			ctrl := NewGroupController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/groups/group-1/join", nil)
			req.SetPathValue("groupID", "group-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.JoinGroup(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			body := rr.Body.String()
			var envelope helpers.APIResponse
			require.NoError(t, json.Unmarshal([]byte(body), &envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "group-1", fake.lastGroupID)
				assert.Equal(t, "user-123", fake.lastUserID)
				assert.Contains(t, body, "joined")
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestGroupController_ListGroupMembers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeGroupService{
			membersResult: []*domain.GroupMember{
				{GroupID: "group-1", UserID: "user-123", Name: "Ada", Email: "ada@example.com"},
				{GroupID: "group-1", UserID: "user-456", Name: "Grace", Email: "grace@example.com"},
			},
		}
		ctrl := NewGroupController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/groups/group-1/members", nil)
		req.SetPathValue("groupID", "group-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.ListGroupMembers(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope struct {
			Data  []*domain.GroupMember `json:"data"`
			Error *helpers.APIError     `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		require.Len(t, envelope.Data, 2)
		assert.Equal(t, "ada@example.com", envelope.Data[0].Email)
		assert.Equal(t, "group-1", fake.lastGroupID)
		assert.Equal(t, "user-123", fake.lastUserID)
	})

	t.Run("forbidden for non-members", func(t *testing.T) {
		fake := &fakeGroupService{membersErr: domain.ErrForbidden}
		ctrl := NewGroupController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/groups/group-1/members", nil)
		req.SetPathValue("groupID", "group-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "stranger-1"))
		rr := httptest.NewRecorder()

		ctrl.ListGroupMembers(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("group not found", func(t *testing.T) {
		fake := &fakeGroupService{membersErr: domain.ErrNotFound}
		ctrl := NewGroupController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/groups/group-missing/members", nil)
		req.SetPathValue("groupID", "group-missing")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.ListGroupMembers(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewGroupController(testLogger, &fakeGroupService{})
		req := httptest.NewRequest(http.MethodGet, "http://test/groups/group-1/members", nil)
		req.SetPathValue("groupID", "group-1")
		rr := httptest.NewRecorder()

		ctrl.ListGroupMembers(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGroupController_LeaveGroup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeGroupService{}
		ctrl := NewGroupController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "http://test/groups/group-1/members/me", nil)
		req.SetPathValue("groupID", "group-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.LeaveGroup(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "left")
	})

	t.Run("group not found", func(t *testing.T) {
		fake := &fakeGroupService{leaveErr: domain.ErrNotFound}
		ctrl := NewGroupController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "http://test/groups/group-missing/members/me", nil)
		req.SetPathValue("groupID", "group-missing")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.LeaveGroup(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
