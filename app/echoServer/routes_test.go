package echoServer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authctrl "booklending/app/echoServer/controller/auth"
	catalogctrl "booklending/app/echoServer/controller/catalog"
	lendingctrl "booklending/app/echoServer/controller/lending"
	"booklending/app/echoServer/validation"
	"booklending/model"
	catalogsvc "booklending/service/catalog"
	lendingsvc "booklending/service/lending"
	jwtutil "booklending/util/jwt"
)

const testSecret = "test-secret"

// memStore is an in-memory stand-in for the two Mongo collections.
type memStore struct {
	mu      sync.Mutex
	books   map[primitive.ObjectID]*model.Book
	records map[primitive.ObjectID]*model.BorrowRecord
}

func newMemStore() *memStore {
	return &memStore{
		books:   map[primitive.ObjectID]*model.Book{},
		records: map[primitive.ObjectID]*model.BorrowRecord{},
	}
}

func (m *memStore) Insert(_ context.Context, doc bson.M) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	b := &model.Book{ID: id}
	applyBookFields(b, doc)
	m.books[id] = b
	return id, nil
}

func (m *memStore) List(_ context.Context, category string) ([]model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Book
	for _, b := range m.books {
		if category == "" || b.Category == category {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) ByID(_ context.Context, id primitive.ObjectID) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateFields(_ context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return 0, nil
	}
	applyBookFields(b, fields)
	return 1, nil
}

func (m *memStore) IncQuantity(_ context.Context, id primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.books[id]; ok {
		b.Quantity += delta
	}
	return nil
}

func (m *memStore) InsertRecord(_ context.Context, rec *model.BorrowRecord) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	rec.ID = id
	m.records[id] = rec
	return id, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return 0, nil
	}
	delete(m.records, id)
	return 1, nil
}

func (m *memStore) ListByEmail(_ context.Context, email string) ([]model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BorrowRecord
	for _, r := range m.records {
		if r.UserEmail == email {
			out = append(out, *r)
		}
	}
	return out, nil
}

func applyBookFields(b *model.Book, doc bson.M) {
	if s, ok := doc["name"].(string); ok {
		b.Name = s
	}
	if s, ok := doc["category"].(string); ok {
		b.Category = s
	}
	if s, ok := doc["image"].(string); ok {
		b.Image = s
	}
	if s, ok := doc["author"].(string); ok {
		b.Author = s
	}
	if q, ok := doc["quantity"].(int); ok {
		b.Quantity = q
	}
}

// borrowRepoAdapter renames InsertRecord to the repo's Insert.
type borrowRepoAdapter struct{ *memStore }

func (a borrowRepoAdapter) Insert(ctx context.Context, rec *model.BorrowRecord) (primitive.ObjectID, error) {
	return a.InsertRecord(ctx, rec)
}

func newTestServer(store *memStore) *echo.Echo {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()

	cs := catalogsvc.New(store)
	ls := lendingsvc.New(store, borrowRepoAdapter{store})

	e := echo.New()
	e.Validator = validation.New()
	Register(e, C{
		Catalog:   &catalogctrl.Controller{Svc: cs, V: v, Log: log},
		Lending:   &lendingctrl.Controller{Svc: ls, V: v, Log: log},
		Auth:      &authctrl.Controller{Secret: testSecret, V: v, Log: log},
		JWTSecret: testSecret,
	})
	return e
}

func doJSON(e *echo.Echo, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func authCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	tok, err := jwtutil.Issue(testSecret, email, 10)
	require.NoError(t, err)
	return &http.Cookie{Name: authctrl.CookieName, Value: tok}
}

func seedBook(t *testing.T, store *memStore, name, category string, qty int) primitive.ObjectID {
	t.Helper()
	id, err := store.Insert(context.Background(), bson.M{"name": name, "category": category, "quantity": qty})
	require.NoError(t, err)
	return id
}

// --- tests ---

func TestAddBook(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)

	rec := doJSON(e, http.MethodPost, "/add-book",
		`{"name":"Dune","category":"Fiction","quantity":"3","author":"Herbert"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["acknowledged"])
	require.NotEmpty(t, body["insertedId"])

	require.Len(t, store.books, 1)
	for _, b := range store.books {
		require.Equal(t, 3, b.Quantity, "string quantity must be coerced")
	}
}

func TestAddBook_BadQuantity(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)

	rec := doJSON(e, http.MethodPost, "/add-book", `{"name":"Dune","quantity":"lots"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.books)
}

func TestListBooks_CategoryFilter(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	for i := 0; i < 3; i++ {
		seedBook(t, store, "f", "Fiction", 1)
	}
	seedBook(t, store, "n", "Non-Fiction", 1)
	seedBook(t, store, "n2", "Non-Fiction", 1)

	rec := doJSON(e, http.MethodGet, "/books?category=Fiction", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	for _, b := range rows {
		require.Equal(t, "Fiction", b.Category)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodGet, "/books/"+primitive.NewObjectID().Hex(), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/books/not-hex", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBorrow_DecrementsAndRecords(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 1)

	rec := doJSON(e, http.MethodPost, "/borrow",
		`{"bookId":"`+id.Hex()+`","userEmail":"a@x.com","returnDate":"2025-01-01"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Book borrowed successfully!", message(t, rec))

	require.Equal(t, 0, store.books[id].Quantity)
	require.Len(t, store.records, 1)
	for _, r := range store.records {
		require.Equal(t, id, r.BookID)
		require.Equal(t, "a@x.com", r.UserEmail)
	}
}

func TestBorrow_OutOfStock(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 0)

	rec := doJSON(e, http.MethodPost, "/borrow",
		`{"bookId":"`+id.Hex()+`","userEmail":"a@x.com","returnDate":"2025-01-01"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Book is out of stock!", message(t, rec))

	require.Equal(t, 0, store.books[id].Quantity)
	require.Empty(t, store.records)
}

func TestBorrow_MissingEmail(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 1)

	rec := doJSON(e, http.MethodPost, "/borrow",
		`{"bookId":"`+id.Hex()+`","returnDate":"2025-01-01"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.records)
}

func TestBorrow_UnknownBook(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodPost, "/borrow",
		`{"bookId":"`+primitive.NewObjectID().Hex()+`","userEmail":"a@x.com","returnDate":"2025-01-01"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReturnBook_RestoresQuantity(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 2)

	rec := doJSON(e, http.MethodPost, "/borrow",
		`{"bookId":"`+id.Hex()+`","userEmail":"a@x.com","returnDate":"2025-01-01"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, store.books[id].Quantity)

	var recordID primitive.ObjectID
	for rid := range store.records {
		recordID = rid
	}

	rec = doJSON(e, http.MethodDelete, "/return-book/"+recordID.Hex(),
		`{"bookId":"`+id.Hex()+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Book returned successfully!", message(t, rec))
	require.Equal(t, 2, store.books[id].Quantity)
	require.Empty(t, store.records)
}

func TestBorrowedBooks_RequiresCookie(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodGet, "/borrowed-books?email=a@x.com", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBorrowedBooks_ForbiddenOnMismatch(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodGet, "/borrowed-books?email=a@x.com", "", authCookie(t, "b@x.com"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBorrowedBooks_ListsOwnRecords(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 5)

	for _, email := range []string{"a@x.com", "b@x.com", "a@x.com"} {
		rec := doJSON(e, http.MethodPost, "/borrow",
			`{"bookId":"`+id.Hex()+`","userEmail":"`+email+`","returnDate":"2025-01-01"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/borrowed-books?email=a@x.com", "", authCookie(t, "a@x.com"))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []model.BorrowRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, "a@x.com", r.UserEmail)
	}
}

func TestUpdateBook_SecuredRoute(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)
	id := seedBook(t, store, "Dune", "Fiction", 1)

	rec := doJSON(e, http.MethodPut, "/books/"+id.Hex(), `{"name":"Dune II"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Dune", store.books[id].Name)

	rec = doJSON(e, http.MethodPut, "/books/"+id.Hex(),
		`{"name":"Dune II","_id":"forged"}`, authCookie(t, "a@x.com"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Dune II", store.books[id].Name)
}

func TestUpdateBook_NotFound(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodPut, "/books/"+primitive.NewObjectID().Hex(),
		`{"name":"x"}`, authCookie(t, "a@x.com"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJWT_SetsAndClearsCookie(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodPost, "/jwt", `{"email":"a@x.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := rec.Result()
	var token *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == authctrl.CookieName {
			token = ck
		}
	}
	require.NotNil(t, token)
	require.True(t, token.HttpOnly)
	require.NotEmpty(t, token.Value)

	// the minted cookie opens the secured route
	rec = doJSON(e, http.MethodGet, "/borrowed-books?email=a@x.com", "",
		&http.Cookie{Name: authctrl.CookieName, Value: token.Value})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == authctrl.CookieName {
			cleared = ck
		}
	}
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Equal(t, -1, cleared.MaxAge)
}

func TestJWT_MissingEmail(t *testing.T) {
	e := newTestServer(newMemStore())

	rec := doJSON(e, http.MethodPost, "/jwt", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
