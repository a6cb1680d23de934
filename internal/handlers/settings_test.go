package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dating-service/internal/mocks"
	"dating-service/internal/models"
	"dating-service/internal/repositories"
	"dating-service/internal/services"
)

func newSettingsRouter(userID string, blocks *mocks.BlockRepositoryMock) *gin.Engine {
	handler := NewSettingsHandler(services.NewBlockService(blocks), nil)
	r := newTestRouter(userID)
	r.POST("/settings/block", handler.Block)
	r.POST("/settings/unblock", handler.Unblock)
	r.GET("/settings/blocked-users", handler.BlockedUsers)
	return r
}

func TestBlockUser(t *testing.T) {
	blocks := new(mocks.BlockRepositoryMock)
	blocks.On("Block", mock.Anything, alice, bob).Return(nil).Once()

	rec := doJSON(t, newSettingsRouter(alice, blocks), http.MethodPost, "/settings/block", map[string]string{"blockedId": bob})
	assert.Equal(t, http.StatusOK, rec.Code)
	blocks.AssertExpectations(t)
}

func TestBlockUserErrors(t *testing.T) {
	blocks := new(mocks.BlockRepositoryMock)
	blocks.On("Block", mock.Anything, alice, bob).Return(repositories.ErrAlreadyBlocked).Once()
	blocks.On("Block", mock.Anything, alice, carol).Return(repositories.ErrUserNotFound).Once()
	r := newSettingsRouter(alice, blocks)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/settings/block", map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/settings/block", map[string]string{"blockedId": alice}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/settings/block", map[string]string{"blockedId": bob}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/settings/block", map[string]string{"blockedId": carol}).Code)
}

func TestUnblockMissingRecord(t *testing.T) {
	blocks := new(mocks.BlockRepositoryMock)
	blocks.On("Unblock", mock.Anything, alice, bob).Return(repositories.ErrBlockNotFound).Once()

	rec := doJSON(t, newSettingsRouter(alice, blocks), http.MethodPost, "/settings/unblock", map[string]string{"blockedId": bob})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockedUsersList(t *testing.T) {
	blocks := new(mocks.BlockRepositoryMock)
	blocks.On("ListBlocked", mock.Anything, alice).Return([]models.BlockedUser{{BlockedID: bob, Name: "Bob"}}, nil).Once()

	rec := doJSON(t, newSettingsRouter(alice, blocks), http.MethodGet, "/settings/blocked-users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		BlockedUsers []models.BlockedUser `json:"blockedUsers"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.BlockedUsers, 1)
	assert.Equal(t, bob, resp.BlockedUsers[0].BlockedID)
}
