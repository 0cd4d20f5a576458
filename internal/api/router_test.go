package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"loadboard-service/internal/adapters/geo"
	"loadboard-service/internal/adapters/repositories"
	"loadboard-service/internal/api/dto"
	"loadboard-service/internal/api/handlers"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testToken = "s3cret"

func testState() domain.AppState {
	mk := func(id, origin, pickup string, dests ...string) domain.Load {
		return domain.Load{
			ID: id,
			LoadDetails: domain.LoadDetails{
				ItemDescriptions: []string{"Auto parts"},
				ReferenceNumber:  "REF-" + id,
				Origin:           origin,
				Destinations:     dests,
				PickupDate:       pickup,
				DeliveryDate:     "2024-09-01",
				PalletCount:      10,
				Weight:           15000,
				EquipmentType:    domain.EquipmentDryVan53,
			},
			Bids: []domain.Bid{},
		}
	}
	return domain.AppState{
		Loads: []domain.Load{
			mk("l1", "New York, NY", "2024-08-10", "Los Angeles, CA"),
			mk("l2", "Nowhereville, ZZ", "2024-08-20", "Chicago, IL"),
		},
		CarrierEmails: []string{"dispatch@example.com"},
	}
}

type testServer struct {
	handler http.Handler
	gw      *repositories.MockStateGateway
	store   *services.LoadStore
}

func newTestServer(t *testing.T, perMinute int) *testServer {
	t.Helper()

	gw := repositories.NewMockStateGatewayWith(testState())
	store, err := services.OpenLoadStore(context.Background(), gw)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	h := NewRouter(RouterConfig{
		Store:              store,
		Geocoder:           geo.NewDefaultTable(),
		AdminToken:         testToken,
		BidRecipient:       "ops@example.com",
		SubscribePerMinute: perMinute,
	})
	return &testServer{handler: h, gw: gw, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

const newLoadBody = `{
	"itemDescriptions": ["Steel coils"],
	"origin": "Chicago, IL",
	"destinations": ["Dallas, TX", "Atlanta, GA"],
	"pickupDate": "2024-08-15",
	"deliveryDate": "2024-08-17",
	"palletCount": 12,
	"weight": 30000,
	"equipmentType": "Flatbed",
	"details": "Tarps required"
}`

func TestHealth(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}

	var res handlers.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := handlers.HealthResponse{Status: "ok", Loads: len(testState().Loads), Subscribers: len(testState().CarrierEmails)}
	if res != want {
		t.Fatalf("health = %+v, want %+v", res, want)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestListLoads(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/loads?sort=pickup", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	res := decode[dto.ListLoadsResponse](t, rec)
	if len(res.Loads) != 2 || res.Loads[0].ID != "l2" {
		t.Fatalf("expected l2 first by pickup date, got %+v", res.Loads)
	}
	if res.Loads[0].LowestBid != nil || res.Loads[0].BidCount != 0 {
		t.Fatalf("expected empty bid summary, got %+v", res.Loads[0])
	}

	if rec := s.do(t, http.MethodGet, "/loads?sort=price", "", false); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", rec.Code)
	}
}

func TestCreateLoadRequiresAdmin(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodPost, "/loads", newLoadBody, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if s.gw.Saves() != 0 {
		t.Fatalf("expected no save without admin token")
	}
}

func TestCreateLoad(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodPost, "/loads", newLoadBody, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	res := decode[dto.LoadResponse](t, rec)
	if res.ID == "" || res.Origin != "Chicago, IL" || len(res.Destinations) != 2 {
		t.Fatalf("unexpected load: %+v", res)
	}
	if got := rec.Header().Get("Location"); got != "/loads/"+res.ID {
		t.Fatalf("unexpected Location %q", got)
	}

	list := decode[dto.ListLoadsResponse](t, s.do(t, http.MethodGet, "/loads", "", false))
	if len(list.Loads) != 3 || list.Loads[0].ID != res.ID {
		t.Fatalf("expected new load first, got %+v", list.Loads)
	}
}

func TestCreateLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"origin":`, http.StatusBadRequest},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest},
		{"invalid load", strings.Replace(newLoadBody, `"Flatbed"`, `"Hovercraft"`, 1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 0)
			rec := s.do(t, http.MethodPost, "/loads", tt.body, true)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body)
			}
			if s.gw.Saves() != 0 {
				t.Fatalf("expected no save")
			}
		})
	}
}

func TestCreateLoadPersistenceFailure(t *testing.T) {
	s := newTestServer(t, 0)
	s.gw.SetSaveError(errors.New("disk full"))

	rec := s.do(t, http.MethodPost, "/loads", newLoadBody, true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body)
	}
	if n := len(s.store.ListLoads(services.OrderPosted)); n != 2 {
		t.Fatalf("expected rollback to 2 loads, got %d", n)
	}
}

func TestUpdateLoad(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodPut, "/loads/l1", newLoadBody, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if res := decode[dto.LoadResponse](t, rec); res.ID != "l1" || res.Origin != "Chicago, IL" {
		t.Fatalf("unexpected update result: %+v", res)
	}

	if rec := s.do(t, http.MethodPut, "/loads/missing", newLoadBody, true); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteLoad(t *testing.T) {
	s := newTestServer(t, 0)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodDelete, "/loads/l1", "", true)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i, rec.Code)
		}
	}
	if rec := s.do(t, http.MethodGet, "/loads/l1", "", false); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateBid(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodPost, "/loads/l1/bids", `{"carrierName":"Acme","amount":2100,"transitDays":3}`, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	res := decode[dto.BidResponse](t, rec)
	if res.Bid.ID == "" || res.Bid.Amount != 2100 {
		t.Fatalf("unexpected bid: %+v", res.Bid)
	}
	if res.Draft.Subject != "Bid for Load #REF-l1: New York, NY to Los Angeles, CA" {
		t.Fatalf("unexpected subject %q", res.Draft.Subject)
	}
	if !strings.HasPrefix(res.Draft.Mailto, "mailto:ops@example.com?subject=") {
		t.Fatalf("unexpected mailto %q", res.Draft.Mailto)
	}

	load := decode[dto.LoadResponse](t, s.do(t, http.MethodGet, "/loads/l1", "", false))
	if load.BidCount != 1 || load.LowestBid == nil || *load.LowestBid != 2100 {
		t.Fatalf("unexpected bid summary: %+v", load)
	}
}

func TestCreateBidErrors(t *testing.T) {
	s := newTestServer(t, 0)

	if rec := s.do(t, http.MethodPost, "/loads/l1/bids", `{"carrierName":"Acme","amount":0}`, false); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero amount, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/loads/missing/bids", `{"carrierName":"Acme","amount":10}`, false); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown load, got %d", rec.Code)
	}
}

func TestDistance(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/loads/l1/distance", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	res := decode[dto.DistanceResponse](t, rec)
	if res.Miles == nil || *res.Miles != 2445.7 {
		t.Fatalf("expected 2445.7 miles, got %+v", res)
	}

	if rec := s.do(t, http.MethodGet, "/loads/l2/distance", "", false); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unresolvable route, got %d", rec.Code)
	}
}

func TestAllDistances(t *testing.T) {
	s := newTestServer(t, 0)

	res := decode[dto.ListDistancesResponse](t, s.do(t, http.MethodGet, "/distances", "", false))
	if len(res.Distances) != 2 {
		t.Fatalf("expected 2 distances, got %+v", res)
	}
	if res.Distances[0].Miles == nil || res.Distances[1].Miles != nil || res.Distances[1].Error == "" {
		t.Fatalf("unexpected distances: %+v", res.Distances)
	}
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t, 0)

	if rec := s.do(t, http.MethodPost, "/subscriptions", `{"email":"New@Carrier.com"}`, false); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if rec := s.do(t, http.MethodPost, "/subscriptions", `{"email":"new@carrier.com"}`, false); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/subscriptions", `{"email":"nope"}`, false); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
	}

	if rec := s.do(t, http.MethodGet, "/subscriptions", "", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	res := decode[dto.ListSubscriptionsResponse](t, s.do(t, http.MethodGet, "/subscriptions", "", true))
	if len(res.Emails) != 2 || res.Emails[1] != "New@Carrier.com" {
		t.Fatalf("unexpected subscribers: %+v", res.Emails)
	}
}

func TestSubscriptionRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	var codes []int
	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"email":"carrier%d@example.com"}`, i)
		codes = append(codes, s.do(t, http.MethodPost, "/subscriptions", body, false).Code)
	}

	want := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodPatch, "/loads/l1", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
