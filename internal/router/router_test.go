package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"vet-clinic-backend/internal/router"
)

var staffHdr = map[string]string{
	"X-Debug-User-ID": "1",
	"X-Debug-Role":    "VETERINARIO",
	"X-Debug-Vet-ID":  "1",
}

func ownerHdr(clientID int64) map[string]string {
	return map[string]string{
		"X-Debug-User-ID":   "2",
		"X-Debug-Role":      "CLIENTE",
		"X-Debug-Client-ID": strconv.FormatInt(clientID, 10),
	}
}

func doReq(t *testing.T, srv *httptest.Server, method, path string, body any, hdr map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, out
}

func decode(t *testing.T, raw []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	code, body := doReq(t, srv, http.MethodGet, "/health", nil, nil)
	if code != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %q", code, body)
	}
}

func TestUnauthenticatedRejected(t *testing.T) {
	srv := newServer(t)

	code, _ := doReq(t, srv, http.MethodGet, "/api/clients", nil, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", code)
	}
}

// TestFullClinicalFlow recorre el circuito completo: alta de cliente,
// mascota y veterinario, cita con dos tratamientos y consulta del detalle.
func TestFullClinicalFlow(t *testing.T) {
	srv := newServer(t)

	var client struct {
		ID int64 `json:"id"`
	}
	code, body := doReq(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"name": "Laura", "surname": "García", "dni": "12345678Z",
		"phone": "+34 612345678", "email": "laura@example.com",
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create client: %d %s", code, body)
	}
	decode(t, body, &client)

	var pet struct {
		ID int64 `json:"id"`
	}
	code, body = doReq(t, srv, http.MethodPost, "/api/pets", map[string]any{
		"client_id": client.ID, "name": "Luna", "species": "Perro",
		"breed": "Mestizo", "birth_date": "2020-05-01", "weight": 12.5,
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create pet: %d %s", code, body)
	}
	decode(t, body, &pet)

	var vet struct {
		ID int64 `json:"id"`
	}
	code, body = doReq(t, srv, http.MethodPost, "/api/vets", map[string]any{
		"name": "Carlos", "surname": "Ruiz", "license_number": "COL-001",
		"specialty": "Traumatología", "email": "carlos@clinica.example.com",
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create vet: %d %s", code, body)
	}
	decode(t, body, &vet)

	var appt struct {
		ID    int64  `json:"id"`
		VetID *int64 `json:"vet_id"`
	}
	code, body = doReq(t, srv, http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": pet.ID, "vet_id": vet.ID,
		"date_time": "2026-03-10T09:00:00Z", "reason": "Vacunación",
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create appointment: %d %s", code, body)
	}
	decode(t, body, &appt)

	for _, price := range []float64{50, 30} {
		code, body = doReq(t, srv, http.MethodPost, "/api/treatments", map[string]any{
			"appointment_id": appt.ID, "description": "Servicio", "price": price,
		}, staffHdr)
		if code != http.StatusCreated {
			t.Fatalf("create treatment: %d %s", code, body)
		}
	}

	var detail struct {
		Treatments []struct {
			Price float64 `json:"price"`
		} `json:"treatments"`
		TotalCost float64 `json:"total_cost"`
	}
	code, body = doReq(t, srv, http.MethodGet, "/api/appointments/"+strconv.FormatInt(appt.ID, 10), nil, staffHdr)
	if code != http.StatusOK {
		t.Fatalf("get appointment: %d %s", code, body)
	}
	decode(t, body, &detail)
	if len(detail.Treatments) != 2 || detail.TotalCost != 80 {
		t.Fatalf("expected 2 treatments totalling 80, got %+v", detail)
	}

	// El propietario ve su mascota; otra cuenta CLIENTE recibe 403.
	petPath := "/api/pets/" + strconv.FormatInt(pet.ID, 10)
	if code, body = doReq(t, srv, http.MethodGet, petPath, nil, ownerHdr(client.ID)); code != http.StatusOK {
		t.Fatalf("owner get pet: %d %s", code, body)
	}
	if code, _ = doReq(t, srv, http.MethodGet, petPath, nil, ownerHdr(client.ID+100)); code != http.StatusForbidden {
		t.Fatalf("foreign owner should get 403, got %d", code)
	}

	// Baja del veterinario: la cita queda sin profesional asignado.
	code, body = doReq(t, srv, http.MethodDelete, "/api/vets/"+strconv.FormatInt(vet.ID, 10), nil, staffHdr)
	if code != http.StatusNoContent {
		t.Fatalf("delete vet: %d %s", code, body)
	}
	var after struct {
		VetID *int64 `json:"vet_id"`
	}
	code, body = doReq(t, srv, http.MethodGet, "/api/appointments/"+strconv.FormatInt(appt.ID, 10), nil, staffHdr)
	if code != http.StatusOK {
		t.Fatalf("get appointment after vet delete: %d %s", code, body)
	}
	decode(t, body, &after)
	if after.VetID != nil {
		t.Fatalf("expected unassigned appointment, got vet_id %v", *after.VetID)
	}

	// Baja del cliente: arrastra mascota, citas y tratamientos.
	code, body = doReq(t, srv, http.MethodDelete, "/api/clients/"+strconv.FormatInt(client.ID, 10), nil, staffHdr)
	if code != http.StatusNoContent {
		t.Fatalf("delete client: %d %s", code, body)
	}
	if code, _ = doReq(t, srv, http.MethodGet, petPath, nil, staffHdr); code != http.StatusNotFound {
		t.Fatalf("expected cascaded pet to be gone, got %d", code)
	}
	if code, _ = doReq(t, srv, http.MethodGet, "/api/appointments/"+strconv.FormatInt(appt.ID, 10), nil, staffHdr); code != http.StatusNotFound {
		t.Fatalf("expected cascaded appointment to be gone, got %d", code)
	}
}

// TestUpdateAppointmentIgnoresReadOnlyFields: reenviar el body de un GET
// (con treatments, total_cost, id) a un PUT debe aplicar solo los campos
// editables y dejar intacta la colección de tratamientos.
func TestUpdateAppointmentIgnoresReadOnlyFields(t *testing.T) {
	srv := newServer(t)

	var client struct {
		ID int64 `json:"id"`
	}
	code, body := doReq(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"name": "Laura", "surname": "García", "dni": "12345678Z",
		"phone": "+34 612345678", "email": "laura@example.com",
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create client: %d %s", code, body)
	}
	decode(t, body, &client)

	var pet struct {
		ID int64 `json:"id"`
	}
	code, body = doReq(t, srv, http.MethodPost, "/api/pets", map[string]any{
		"client_id": client.ID, "name": "Luna", "species": "Perro", "weight": 12,
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create pet: %d %s", code, body)
	}
	decode(t, body, &pet)

	var appt struct {
		ID int64 `json:"id"`
	}
	code, body = doReq(t, srv, http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": pet.ID, "date_time": "2026-03-10T09:00:00Z", "reason": "Vacunación",
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create appointment: %d %s", code, body)
	}
	decode(t, body, &appt)

	code, body = doReq(t, srv, http.MethodPost, "/api/treatments", map[string]any{
		"appointment_id": appt.ID, "description": "Vacuna", "price": 35.0,
	}, staffHdr)
	if code != http.StatusCreated {
		t.Fatalf("create treatment: %d %s", code, body)
	}

	apptPath := "/api/appointments/" + strconv.FormatInt(appt.ID, 10)
	code, body = doReq(t, srv, http.MethodPut, apptPath, map[string]any{
		"id":         appt.ID,
		"diagnosis":  "Otitis leve",
		"treatments": []any{},
		"total_cost": 0,
	}, staffHdr)
	if code != http.StatusOK {
		t.Fatalf("update with read-only fields: %d %s", code, body)
	}

	var detail struct {
		Diagnosis  string `json:"diagnosis"`
		Treatments []struct {
			ID int64 `json:"id"`
		} `json:"treatments"`
		TotalCost float64 `json:"total_cost"`
	}
	decode(t, body, &detail)
	if detail.Diagnosis != "Otitis leve" {
		t.Fatalf("diagnosis not patched: %+v", detail)
	}
	if len(detail.Treatments) != 1 || detail.TotalCost != 35 {
		t.Fatalf("treatments must survive the update, got %+v", detail)
	}
}

func TestRegisterAndDashboard(t *testing.T) {
	srv := newServer(t)

	// Sin TokenIssuer la cuenta se crea igualmente (modo dev, sin token).
	code, body := doReq(t, srv, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "laura@example.com", "password": "supersecreta", "role": "CLIENTE",
		"name": "Laura", "surname": "García", "dni": "12345678Z", "phone": "+34 612345678",
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("register: %d %s", code, body)
	}

	code, body = doReq(t, srv, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "laura@example.com", "password": "supersecreta",
	}, nil)
	if code != http.StatusOK {
		t.Fatalf("login: %d %s", code, body)
	}

	var login struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, body, &login)
	if login.Email != "laura@example.com" || login.Role != "CLIENTE" {
		t.Fatalf("unexpected login payload: %s", body)
	}

	// El registro de un CLIENTE crea su ficha: el panel debe contarla.
	var dash struct {
		TotalClients int `json:"total_clients"`
	}
	code, body = doReq(t, srv, http.MethodGet, "/api/dashboard", nil, staffHdr)
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", code, body)
	}
	decode(t, body, &dash)
	if dash.TotalClients != 1 {
		t.Fatalf("expected 1 client in dashboard, got %d", dash.TotalClients)
	}
}

func TestValidationErrorShape(t *testing.T) {
	srv := newServer(t)

	code, body := doReq(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"name": "L", "dni": "1234",
	}, staffHdr)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", code, body)
	}

	var errBody struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, body, &errBody)
	if errBody.Error == "" || len(errBody.Fields) == 0 {
		t.Fatalf("expected error payload with fields, got %s", body)
	}
}
