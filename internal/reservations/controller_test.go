package reservations

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func extendRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewController(svc)
	router.POST("/events/:eventId/seats/reserve/:holdId/extend", controller.Extend)
	return router
}

// Extending a hold that has expired but not yet been swept responds 404,
// the same status the client sees after the sweeper deletes the hold.
func TestExtendExpiredHoldRespondsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	eventID := uuid.New()

	hold := &Hold{ID: uuid.New(), EventID: eventID, ExpiresAt: time.Now().Add(-time.Second)}
	repo.holds[hold.ID] = hold

	router := extendRouter(svc)
	url := "/events/" + eventID.String() + "/seats/reserve/" + hold.ID.String() + "/extend"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtendUnknownHoldRespondsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	router := extendRouter(svc)
	url := "/events/" + uuid.New().String() + "/seats/reserve/" + uuid.New().String() + "/extend"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
