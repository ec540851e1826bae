package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/debatearchive/backend/internal/database"
	"github.com/debatearchive/backend/internal/models"
	"github.com/debatearchive/backend/internal/ratelimit"
	"github.com/debatearchive/backend/internal/repository"
)

func newVoteHandlerWithMock(t *testing.T, counter *fakeCounter) (*VoteHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	db := &database.DB{DB: mockDB}
	h := NewVoteHandler(
		repository.NewVoteRepository(db),
		ratelimit.New(counter),
		ratelimit.Limits{PerUser: 10, PerIP: 20, WindowMinutes: 1},
		nil,
	)
	return h, mock, mockDB
}

func TestVoteHandler_Cast_ReturnsFreshTally(t *testing.T) {
	counter := &fakeCounter{}
	h, mock, db := newVoteHandlerWithMock(t, counter)
	defer db.Close()

	entryID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO votes`).
		WithArgs(sqlmock.AnyArg(), "user_voter", entryID, models.VoteUp, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))
	mock.ExpectQuery(`SELECT upvotes, downvotes, weighted_score FROM calculate_weighted_score\(\$1\)`).
		WithArgs(entryID).
		WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes", "weighted_score"}).
			AddRow(int64(4), int64(1), 3.25))

	router := gin.New()
	router.POST("/votes", identityMiddleware("user_voter"), h.Cast)

	w := doJSON(router, http.MethodPost, "/votes", models.CastVoteRequest{
		EntryID:  entryID,
		VoteType: models.VoteUp,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if counter.recorded != 1 {
		t.Errorf("recorded %d rate-limit rows, want 1", counter.recorded)
	}

	var resp models.VoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response unmarshal: %v", err)
	}
	if resp.VoteCount.Upvotes != 4 || resp.VoteCount.Downvotes != 1 {
		t.Errorf("tally = %d/%d, want 4/1", resp.VoteCount.Upvotes, resp.VoteCount.Downvotes)
	}
	if resp.VoteCount.WeightedScore != 3.25 {
		t.Errorf("weighted score = %v, want 3.25", resp.VoteCount.WeightedScore)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVoteHandler_Cast_MissingEntry(t *testing.T) {
	h, mock, db := newVoteHandlerWithMock(t, &fakeCounter{})
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO votes`).
		WillReturnError(&pq.Error{Code: "23503"})

	router := gin.New()
	router.POST("/votes", identityMiddleware("user_voter"), h.Cast)

	w := doJSON(router, http.MethodPost, "/votes", models.CastVoteRequest{
		EntryID:  uuid.New(),
		VoteType: models.VoteDown,
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body: %s)", w.Code, w.Body.String())
	}
}

func TestVoteHandler_Cast_InvalidVoteType(t *testing.T) {
	h, _, db := newVoteHandlerWithMock(t, &fakeCounter{})
	defer db.Close()

	router := gin.New()
	router.POST("/votes", identityMiddleware("user_voter"), h.Cast)

	w := doJSON(router, http.MethodPost, "/votes", map[string]interface{}{
		"entry_id":  uuid.NewString(),
		"vote_type": "sideways",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestVoteHandler_Cast_RateLimited(t *testing.T) {
	counter := &fakeCounter{ipCount: 20}
	h, mock, db := newVoteHandlerWithMock(t, counter)
	defer db.Close()

	router := gin.New()
	router.POST("/votes", identityMiddleware("user_voter"), h.Cast)

	w := doJSON(router, http.MethodPost, "/votes", models.CastVoteRequest{
		EntryID:  uuid.New(),
		VoteType: models.VoteUp,
	})

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (body: %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestVoteHandler_Rescind(t *testing.T) {
	h, mock, db := newVoteHandlerWithMock(t, &fakeCounter{})
	defer db.Close()

	entryID := uuid.New()
	mock.ExpectExec(`DELETE FROM votes WHERE voter_id = \$1 AND entry_id = \$2`).
		WithArgs("user_voter", entryID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT upvotes, downvotes, weighted_score FROM calculate_weighted_score\(\$1\)`).
		WithArgs(entryID).
		WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes", "weighted_score"}).
			AddRow(int64(3), int64(1), 2.25))

	router := gin.New()
	router.DELETE("/votes", identityMiddleware("user_voter"), h.Rescind)

	w := doJSON(router, http.MethodDelete, "/votes?entry_id="+entryID.String(), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVoteHandler_Rescind_MissingEntryID(t *testing.T) {
	h, _, db := newVoteHandlerWithMock(t, &fakeCounter{})
	defer db.Close()

	router := gin.New()
	router.DELETE("/votes", identityMiddleware("user_voter"), h.Rescind)

	w := doJSON(router, http.MethodDelete, "/votes", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
