package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/internal/middleware"
	"github.com/goliatone/go-formbuilder/internal/session"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const (
	testBaseURL = "http://forms.test"
	testSecret  = "s3cret"
	testSession = "0123456789abcdef"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server *httptest.Server
	client *gateway.Client
	svc    *Service
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	admin := middleware.NewAdmin(testSecret)
	opts = append([]Option{WithAdmin(admin), WithBaseURL(testBaseURL)}, opts...)
	svc := NewService(store.NewMemory(), nil, opts...)

	handler, err := NewHandler(svc, session.Hourly{Now: func() time.Time { return testNow }}, admin, nil, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	router := gin.New()
	handler.RegisterRoutes(&router.RouterGroup, router.Group("/api"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client, err := gateway.NewClient(server.URL, gateway.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return fixture{server: server, client: client, svc: svc}
}

func (f fixture) do(t *testing.T, method, path, contentType, body string, header map[string]string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}
	resp, err := f.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestContactEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: testsupport.ContactSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if ref.ID == "" || ref.URL != testBaseURL+"/f/"+ref.ID {
		t.Fatalf("unexpected ref %+v", ref)
	}

	form, err := f.client.FetchForm(ctx, ref.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff(testsupport.ContactSchema(), form.Schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	if form.Name != "Contact" {
		t.Fatalf("unexpected name %q", form.Name)
	}

	values := model.Values{"name": "Ada", "email": "ada@example.com", "subject": "Support", "message": "Hi"}
	result, err := f.client.Submit(ctx, ref.ID, values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.SubmissionID == "" {
		t.Fatalf("expected a submission id")
	}

	forms, err := f.client.ListForms(ctx, gateway.Scope{SessionID: testSession})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(forms) != 1 || len(forms[0].Submissions) != 1 {
		t.Fatalf("expected one form with one submission, got %+v", forms)
	}
	stored := forms[0].Submissions[0]
	if stored.ID != result.SubmissionID {
		t.Fatalf("submission id mismatch %q != %q", stored.ID, result.SubmissionID)
	}
	if diff := cmp.Diff(values, stored.Values); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_DefaultsAndCoercion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schema := model.FormSchema{Fields: []model.Field{
		{ID: "a", Type: model.FieldTypeText, Label: "A"},
		{ID: "broken", Label: "No type"},
		{ID: "a", Type: model.FieldTypeURL, Label: "Dup"},
	}}
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: schema, SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	form, err := f.client.FetchForm(ctx, ref.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if form.Name != model.DefaultFormName || form.Schema.Name != model.DefaultFormName {
		t.Fatalf("expected default name, got %q / %q", form.Name, form.Schema.Name)
	}
	if len(form.Schema.Fields) != 2 {
		t.Fatalf("expected the untyped item to be dropped, got %+v", form.Schema.Fields)
	}
	if ids := form.Schema.IDs(); ids[0] != "a" || ids[1] == "a" || ids[1] == "" {
		t.Fatalf("duplicate id must be regenerated, got %v", ids)
	}

	if status, _ := f.do(t, http.MethodPost, "/api/forms", "application/json", `{"formName":"X"}`, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without session, got %d", status)
	}
	if _, err := f.client.CreateForm(ctx, gateway.CreateRequest{}); !errors.Is(err, gateway.ErrSessionRequired) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestPublish_EditorSchemaRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ed := editor.New(f.svc.Registry())
	ed.SetName("Cleared")
	text, _ := ed.Append(model.FieldTypeText)
	ed.SetPlaceholder(text.ID, "")
	tags, _ := ed.Append(model.FieldTypeCheckbox)
	for range tags.Options {
		ed.RemoveOption(tags.ID, 0)
	}
	link, _ := ed.Append(model.FieldTypeURL)
	ed.SetPlaceholder(link.ID, "")
	stars, _ := ed.Append(model.FieldTypeRating)
	ed.SetRatingMax(stars.ID, 3)
	ed.Append(model.FieldTypeSlider)
	ed.Append(model.FieldTypeIframe)
	want := ed.Schema()

	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: want, SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	form, err := f.client.FetchForm(ctx, ref.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff(want, form.Schema, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishedPage_RatingMaxCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schema := model.FormSchema{Name: "Stars", Fields: []model.Field{
		{ID: "r", Type: model.FieldTypeRating, Label: "Score", Max: model.Float(1e18)},
	}}
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: schema, SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	form, err := f.client.FetchForm(ctx, ref.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := *form.Schema.Fields[0].Max; got != components.DefaultRatingCap {
		t.Fatalf("expected max capped to %d, got %v", components.DefaultRatingCap, got)
	}
	if status, body := f.do(t, http.MethodGet, "/f/"+ref.ID, "", "", nil); status != http.StatusOK {
		t.Fatalf("unexpected page %d:\n%s", status, body)
	}
}

func ageSchema() model.FormSchema {
	return model.FormSchema{Name: "Ages", Fields: []model.Field{
		{ID: "age", Type: model.FieldTypeNumber, Label: "Age", DisallowDecimals: true},
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, AllowedDomains: []string{"acme.com"}},
	}}
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: ageSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, err = f.client.Submit(ctx, ref.ID, model.Values{"age": "2.5"})
	var rejected *gateway.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"age": {"Only whole numbers allowed"}}, rejected.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.client.Submit(ctx, ref.ID, model.Values{"age": "3"}); err != nil {
		t.Fatalf("integer without email must pass by default: %v", err)
	}
	if _, err := f.client.Submit(ctx, "missing", model.Values{}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmit_PolicyEnforced(t *testing.T) {
	f := newFixture(t, WithPolicy(validation.Policy{EnforceRequired: true, EnforceAllowedDomains: true}))
	ctx := context.Background()
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: ageSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, err = f.client.Submit(ctx, ref.ID, model.Values{"age": "3"})
	var rejected *gateway.RejectedError
	if !errors.As(err, &rejected) || len(rejected.Fields["email"]) != 1 {
		t.Fatalf("expected required email rejection, got %v", err)
	}
	_, err = f.client.Submit(ctx, ref.ID, model.Values{"email": "ada@elsewhere.org"})
	if !errors.As(err, &rejected) || !strings.Contains(rejected.Fields["email"][0], "acme.com") {
		t.Fatalf("expected domain rejection, got %v", err)
	}
	if _, err := f.client.Submit(ctx, ref.ID, model.Values{"email": "ada@acme.com"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.client.CreateForm(ctx, gateway.CreateRequest{Name: "Mine", SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := f.client.CreateForm(ctx, gateway.CreateRequest{Name: "Theirs", SessionID: "fedcba9876543210"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	scoped, err := f.client.ListForms(ctx, gateway.Scope{SessionID: testSession})
	if err != nil || len(scoped) != 1 || scoped[0].ID != mine.ID {
		t.Fatalf("expected only the session's form, got %+v %v", scoped, err)
	}
	all, err := f.client.ListForms(ctx, gateway.Scope{AdminCredential: testSecret})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected every form for admin, got %+v %v", all, err)
	}
	if status, _ := f.do(t, http.MethodGet, "/api/forms", "", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without scope, got %d", status)
	}
	status, body := f.do(t, http.MethodGet, "/api/forms", "", "", map[string]string{"X-Session-Id": "ffffffffffffffff"})
	if status != http.StatusOK || !strings.Contains(body, `"data":[]`) {
		t.Fatalf("expected empty list, got %d %s", status, body)
	}

	if err := f.client.DeleteForm(ctx, mine.ID, "wrong"); !errors.Is(err, gateway.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := f.client.DeleteForm(ctx, mine.ID, testSecret); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.client.FetchForm(ctx, mine.ID); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := f.client.DeleteForm(ctx, mine.ID, testSecret); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSessionEndpoints(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/session", "", "", map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var issued struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal([]byte(body), &issued); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := session.Derive("9.9.9.9", testNow); issued.SessionID != want {
		t.Fatalf("session mismatch %q != %q", issued.SessionID, want)
	}

	if status, _ := f.do(t, http.MethodPost, "/api/session", "application/json", `{"sessionId":"`+issued.SessionID+`"}`, nil); status != http.StatusOK {
		t.Fatalf("expected valid session, got %d", status)
	}
	if status, _ := f.do(t, http.MethodPost, "/api/session", "application/json", `{"sessionId":"nope"}`, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestPublishedPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: ageSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	status, body := f.do(t, http.MethodGet, "/f/"+ref.ID, "", "", nil)
	if status != http.StatusOK || !strings.Contains(body, "Ages") || !strings.Contains(body, "/api/forms/"+ref.ID+"/submit") {
		t.Fatalf("unexpected page %d:\n%s", status, body)
	}
	if status, _ := f.do(t, http.MethodGet, "/f/missing", "", "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	post := func(age string) (int, string) {
		form := url.Values{"age": {age}}
		return f.do(t, http.MethodPost, "/api/forms/"+ref.ID+"/submit", "application/x-www-form-urlencoded", form.Encode(), nil)
	}
	if status, body := post("2.5"); status != http.StatusUnprocessableEntity || strings.Contains(body, SubmittedNotice) {
		t.Fatalf("expected re-rendered page with errors, got %d", status)
	}
	if status, body := post("4"); status != http.StatusOK || !strings.Contains(body, SubmittedNotice) {
		t.Fatalf("expected confirmation, got %d", status)
	}

	forms, err := f.svc.ListForms(ctx, gateway.Scope{SessionID: testSession})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(model.Values{"age": "4"}, forms[0].Submissions[0].Values); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishedPage_MultipartSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: testsupport.ContactSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range map[string]string{"name": "Ada", "message": "Hi"} {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	status, page := f.do(t, http.MethodPost, "/api/forms/"+ref.ID+"/submit", writer.FormDataContentType(), body.String(), nil)
	if status != http.StatusOK || !strings.Contains(page, SubmittedNotice) {
		t.Fatalf("expected confirmation, got %d:\n%s", status, page)
	}

	forms, err := f.svc.ListForms(ctx, gateway.Scope{SessionID: testSession})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(model.Values{"name": "Ada", "message": "Hi"}, forms[0].Submissions[0].Values); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
}

func TestContractEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: testsupport.ContactSchema(), SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	raw, err := f.client.Contract(ctx, ref.ID)
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["openapi"]; !ok {
		t.Fatalf("expected an OpenAPI document, got keys %v", doc)
	}
	status, body := f.do(t, http.MethodGet, "/api/forms/"+ref.ID+"/contract?format=yaml", "", "", nil)
	if status != http.StatusOK || !strings.Contains(body, "openapi:") {
		t.Fatalf("expected yaml document, got %d", status)
	}
}

func TestStrictContract(t *testing.T) {
	f := newFixture(t, WithStrictContract(true))
	ctx := context.Background()
	schema := model.FormSchema{Name: "Level", Fields: []model.Field{
		{ID: "level", Type: model.FieldTypeSlider, Label: "Level", Min: model.Float(0), Max: model.Float(10), Value: model.Float(5)},
	}}
	ref, err := f.client.CreateForm(ctx, gateway.CreateRequest{Schema: schema, SessionID: testSession})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	var rejected *gateway.RejectedError
	if _, err := f.client.Submit(ctx, ref.ID, model.Values{"level": 42.0}); !errors.As(err, &rejected) {
		t.Fatalf("expected bounds rejection, got %v", err)
	}
	if _, err := f.client.Submit(ctx, ref.ID, model.Values{"level": 7.0}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
