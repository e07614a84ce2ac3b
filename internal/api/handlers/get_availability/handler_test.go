package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/testfixtures"
	getAvailability "github.com/m04kA/SMC-BookingCore/internal/usecase/get_availability"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

type stubUseCase struct {
	got *getAvailability.Request
	res *getAvailability.Response
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	s.got = req
	return s.res, s.err
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/1/locations/10/availability?"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"organizationId": "1", "locationId": "10"})
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandler_Grid(t *testing.T) {
	uc := &stubUseCase{res: &getAvailability.Response{
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), OrganizationID: 1, LocationID: 10, IsOpen: true,
		OpenTime: types.MustTimeString("10:00"), CloseTime: types.MustTimeString("18:00"),
		StepMinutes: 30, DurationMinutes: 30,
		Slots: []domain.SlotAvailability{
			{Time: types.MustTimeString("10:00"), Available: false},
			{Time: types.MustTimeString("10:30"), Available: true},
		},
	}}

	w := get(NewHandler(uc, testfixtures.NopLogger{}), "date=2026-03-02&serviceIds=1,%202")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1, 2}, uc.got.ServiceIDs)

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "2026-03-02", body.Date)
	require.NotNil(t, body.OpenTime)
	assert.Equal(t, "10:00", *body.OpenTime)
	assert.Equal(t, []SlotResponse{{Time: "10:00"}, {Time: "10:30", Available: true}}, body.Slots)
}

func TestHandler_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
		want  int
	}{
		{name: "missing date", query: "", want: http.StatusBadRequest},
		{name: "bad date", query: "date=tomorrow", want: http.StatusBadRequest},
		{name: "bad service ids", query: "date=2026-03-02&serviceIds=1,x", want: http.StatusBadRequest},
		{name: "past", query: "date=2026-03-02", err: getAvailability.ErrInvalidDate, want: http.StatusBadRequest},
		{name: "location", query: "date=2026-03-02", err: getAvailability.ErrLocationNotFound, want: http.StatusNotFound},
		{name: "service", query: "date=2026-03-02&serviceIds=3", err: getAvailability.ErrServiceNotFound, want: http.StatusNotFound},
		{name: "internal", query: "date=2026-03-02", err: getAvailability.ErrInternal, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(NewHandler(&stubUseCase{err: tt.err}, testfixtures.NopLogger{}), tt.query)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
