package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/auth"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, bank *quizbank.Bank) *GameServer {
	t.Helper()
	logger, _ := test.NewNullLogger()
	issuer, err := auth.NewIssuer(time.Hour)
	require.NoError(t, err)
	store := game.NewRoomStore(bank, game.StoreConfig{Seed: 1}, logger)
	t.Cleanup(store.Close)
	return NewGameServer(store, issuer, logger, nil)
}

func serve(gs *GameServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	gs.Routes([]string{"https://*", "http://*"}).ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	rec := serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoriesHandler(t *testing.T) {
	bank := quizbank.New([]quizbank.Category{
		{Name: "تاريخ", Image: "history.png", Questions: []quizbank.Question{{Q: "q", A: "a"}}},
	})
	rec := serve(newTestServer(t, bank), httptest.NewRequest(http.MethodGet, "/quiz/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Cats []quizbank.CategoryInfo `json:"cats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Cats, 1)
	assert.Equal(t, "تاريخ", body.Cats[0].Name)

	rec = serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/quiz/categories", nil))
	assert.JSONEq(t, `{"cats":[]}`, rec.Body.String())
}

func TestSessionHandler(t *testing.T) {
	gs := newTestServer(t, nil)

	rec := serve(gs, httptest.NewRequest(http.MethodPost, "/session", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var first sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	_, err := uuid.Parse(first.UserID)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	sub, err := gs.Issuer.AuthenticateJWT(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, sub)

	// A valid cookie keeps the same guest.
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req.AddCookie(cookies[0])
	rec = serve(gs, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var second sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.UserID, second.UserID)
	assert.Empty(t, rec.Result().Cookies())

	// A forged cookie is replaced.
	req = httptest.NewRequest(http.MethodPost, "/session", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "not-a-jwt"})
	rec = serve(gs, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestRoomSnapshotHandler(t *testing.T) {
	gs := newTestServer(t, nil)

	rec := serve(gs, httptest.NewRequest(http.MethodGet, "/rooms/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	logger, _ := test.NewNullLogger()
	conn := NewConnection("guest", logger)
	_, _, err := gs.Rooms.Join(context.Background(), game.JoinRequest{
		RoomID:     "abcd",
		PlayerID:   conn.ID,
		PlayerName: "Noor",
		GameType:   models.GameXO,
		Options:    models.NewRoomOptions(nil, nil, 0),
		Sink:       conn,
	})
	require.NoError(t, err)

	rec = serve(gs, httptest.NewRequest(http.MethodGet, "/rooms/abcd", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		RoomID   string          `json:"roomId"`
		GameType string          `json:"gameType"`
		Players  []models.Player `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "ABCD", snap.RoomID)
	assert.Equal(t, "xo", snap.GameType)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Noor", snap.Players[0].Name)
}

func TestLeaveAllReportsRooms(t *testing.T) {
	gs := newTestServer(t, nil)
	logger, _ := test.NewNullLogger()
	conn := NewConnection("guest", logger)
	for _, id := range []string{"zeta", "abcd"} {
		room, _, err := gs.Rooms.Join(context.Background(), game.JoinRequest{
			RoomID: id, PlayerID: conn.ID, GameType: models.GameXO, Sink: conn,
		})
		require.NoError(t, err)
		conn.rooms[room.ID] = room
	}

	assert.Equal(t, []string{"ABCD", "ZETA"}, conn.leaveAll())
	assert.Empty(t, conn.rooms)
	assert.Empty(t, conn.leaveAll())
}
