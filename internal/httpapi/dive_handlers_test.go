package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
)

func loginAs(t *testing.T, srv string, client *http.Client, email string) {
	t.Helper()
	resp := postJSON(t, client, srv+"/auth/register", fmt.Sprintf(`{"email":%q,"password":"pw"}`, email))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: expected 200, got %d", email, resp.StatusCode)
	}
	resp.Body.Close()
	resp = postJSON(t, client, srv+"/auth/login", fmt.Sprintf(`{"email":%q,"password":"pw"}`, email))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, resp.StatusCode)
	}
	resp.Body.Close()
}

func listRecords(t *testing.T, srv string, client *http.Client) []map[string]any {
	t.Helper()
	resp, err := client.Get(srv + "/dives")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return out
}

func TestDivesRequireAuthentication(t *testing.T) {
	api := newTestAPI(t)
	srv, _ := newTestClient(t, api)

	plain := &http.Client{}
	resp, err := plain.Get(srv.URL + "/dives")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestListStartsEmptyAndIsNeverNull(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	resp, err := client.Get(srv.URL + "/dives")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "[]\n" {
		t.Fatalf("expected literal empty array, got %q", data)
	}
}

func TestCreateAndListNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	for _, site := range []string{"Blue Hole", "Shark Point"} {
		resp := postJSON(t, client, srv.URL+"/dives", fmt.Sprintf(`{"site":%q,"max_depth":"24"}`, site))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["site"] != site {
			t.Fatalf("unexpected create body: %v", body)
		}
		if _, ok := body["id"]; !ok {
			t.Fatalf("create response missing id: %v", body)
		}
	}

	records := listRecords(t, srv.URL, client)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["site"] != "Shark Point" || records[1]["site"] != "Blue Hole" {
		t.Fatalf("expected newest first, got %v", records)
	}
}

func TestCreateOmitsUnsetFields(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	resp := postJSON(t, client, srv.URL+"/dives", `{"site":"Jetty"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, present := body["buddy"]; present {
		t.Fatalf("unset field should be omitted, got %v", body)
	}
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	resp := postJSON(t, client, srv.URL+"/dives", `{"site":"Jetty","depth_in_furlongs":"3"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDeleteOwnRecord(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	resp := postJSON(t, client, srv.URL+"/dives", `{"site":"Jetty"}`)
	body := decodeBody(t, resp)
	id := int64(body["id"].(float64))

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/dives/%d", srv.URL, id), nil)
	delResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", delResp.StatusCode)
	}
	delBody := decodeBody(t, delResp)
	if delBody["ok"] != true {
		t.Fatalf("unexpected delete body: %v", delBody)
	}

	if got := listRecords(t, srv.URL, client); len(got) != 0 {
		t.Fatalf("expected empty list after delete, got %v", got)
	}
}

func TestDeleteForeignRecordLooksMissing(t *testing.T) {
	api := newTestAPI(t)
	srv, owner := newTestClient(t, api)
	loginAs(t, srv.URL, owner, "owner@example.com")

	resp := postJSON(t, owner, srv.URL+"/dives", `{"site":"Jetty"}`)
	body := decodeBody(t, resp)
	id := int64(body["id"].(float64))

	_, intruder := newTestClient(t, api)
	loginAs(t, srv.URL, intruder, "intruder@example.com")

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/dives/%d", srv.URL, id), nil)
	delResp, err := intruder.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if delResp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", delResp.StatusCode)
	}
	delBody := decodeBody(t, delResp)
	if delBody["error"] != "record not found" {
		t.Fatalf("unexpected error: %v", delBody["error"])
	}

	if got := listRecords(t, srv.URL, owner); len(got) != 1 {
		t.Fatalf("owner's record must survive, got %v", got)
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	api := newTestAPI(t)
	srv, client := newTestClient(t, api)
	loginAs(t, srv.URL, client, "diver@example.com")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/dives/999", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUsersDoNotSeeEachOthersRecords(t *testing.T) {
	api := newTestAPI(t)
	srv, first := newTestClient(t, api)
	loginAs(t, srv.URL, first, "first@example.com")
	postJSON(t, first, srv.URL+"/dives", `{"site":"North Wall"}`).Body.Close()

	_, second := newTestClient(t, api)
	loginAs(t, srv.URL, second, "second@example.com")

	if got := listRecords(t, srv.URL, second); len(got) != 0 {
		t.Fatalf("expected isolated empty list, got %v", got)
	}
}
