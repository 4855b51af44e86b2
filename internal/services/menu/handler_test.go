package menu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izakaya-order/internal/app"
	"izakaya-order/internal/catalog"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/menugen"
	"izakaya-order/internal/models"
	"izakaya-order/internal/orders"
	"izakaya-order/internal/policy"
	"izakaya-order/internal/services/web"
)

type fakePersister struct {
	mu    sync.Mutex
	saved [][]models.MenuItem
}

func (p *fakePersister) SaveCatalog(ctx context.Context, items []models.MenuItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, items)
	return nil
}

func (p *fakePersister) SaveOrders(ctx context.Context, list []models.Order) error {
	return nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, ingredients string) (models.MenuItemDraft, error) {
	return models.MenuItemDraft{}, &menugen.GenerationError{
		Message: menugen.FailureMessage,
		Err:     errors.New("upstream returned 503"),
	}
}

type testEnv struct {
	router    chi.Router
	state     *app.State
	persister *fakePersister
}

func newTestEnv(t *testing.T, gen menugen.Generator) *testEnv {
	t.Helper()
	log := logger.NewWithWriter("staff-service", io.Discard)
	p := &fakePersister{}
	state := app.New(
		catalog.NewStore(catalog.DefaultRules(), catalog.SeedItems()),
		orders.NewManager(),
		policy.New(policy.NewMemoryStore()),
		log,
		app.WithPersister(p),
	)

	r := chi.NewRouter()
	r.Use(web.WithLogging(log))
	NewHandler(NewService(state, gen, log), log, 7).Routes(r)
	return &testEnv{router: r, state: state, persister: p}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateItem(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodPost, "/menu/items",
		`{"name":" だし巻き玉子 ","price":"580","category":"フード","description":"ふわふわ"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := decode[models.MenuItem](t, rec)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "だし巻き玉子", item.Name)
	assert.Equal(t, 580, item.Price)
	assert.Equal(t, models.SubcategoryOther, item.SubCategory)
	assert.False(t, item.SoldOut)

	list := decode[[]models.MenuItem](t, env.do(t, http.MethodGet, "/menu/items", ""))
	require.NotEmpty(t, list)
	assert.Equal(t, item.ID, list[0].ID, "new items go to the top")
	assert.Len(t, env.persister.saved, 1)
}

func TestCreateItem_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank name", `{"name":"  ","price":"500","category":"フード"}`},
		{"price not a number", `{"name":"枝豆","price":"abc","category":"フード"}`},
		{"negative price", `{"name":"枝豆","price":"-10","category":"フード"}`},
		{"unknown category", `{"name":"枝豆","price":"400","category":"デザート"}`},
		{"unknown field", `{"name":"枝豆","price":"400","category":"フード","stock":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, menugen.Mock{})
			before := len(env.state.Catalog.List())

			rec := env.do(t, http.MethodPost, "/menu/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Len(t, env.state.Catalog.List(), before)
			assert.Empty(t, env.persister.saved)
		})
	}
}

func TestReplaceItem(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodPut, "/menu/items/prod-edamame",
		`{"name":"塩枝豆","price":"450","category":"フード","sub_category":"一品"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	item := decode[models.MenuItem](t, rec)
	assert.Equal(t, "prod-edamame", item.ID)
	assert.Equal(t, "塩枝豆", item.Name)
	assert.Equal(t, 450, item.Price)
	assert.Equal(t, models.SubcategorySide, item.SubCategory)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/menu/items/missing",
		`{"name":"塩枝豆","price":"450","category":"フード"}`).Code)

	rec = env.do(t, http.MethodPut, "/menu/items/prod-edamame", `{"name":"塩枝豆","price":"x","category":"フード"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got, _ := env.state.Catalog.Get("prod-edamame")
	assert.Equal(t, 450, got.Price, "rejected edit leaves the item unchanged")
}

func TestPatchItem(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodPatch, "/menu/items/prod-karaage", `{"price":720}`)
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[models.MenuItem](t, rec)
	assert.Equal(t, 720, item.Price)
	assert.Equal(t, "鶏の唐揚げ", item.Name)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/menu/items/prod-karaage", `{"price":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/menu/items/prod-karaage", `{"name":" "}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/menu/items/missing", `{"price":100}`).Code)
}

func TestDeleteAndSoldOut(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodPost, "/menu/items/prod-highball/sold-out", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.MenuItem](t, rec).SoldOut)

	rec = env.do(t, http.MethodPost, "/menu/items/prod-highball/sold-out", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.MenuItem](t, rec).SoldOut)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/menu/items/prod-highball", "").Code)
	_, ok := env.state.Catalog.Get("prod-highball")
	assert.False(t, ok)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/menu/items/prod-highball", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/menu/items/prod-highball/sold-out", "").Code)
	assert.Len(t, env.persister.saved, 3)
}

func TestGenerateSpecial_Mock(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodPost, "/menu/specials/generate", `{"ingredients":"秋刀魚"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := decode[models.MenuItem](t, rec)
	assert.Equal(t, "シェフの気まぐれ: 秋刀魚風", item.Name)
	assert.Equal(t, 850, item.Price)
	assert.Equal(t, models.CategoryRecommend, item.Category)
	assert.True(t, item.Special)
	assert.False(t, item.SoldOut)

	_, ok := env.state.Catalog.Get(item.ID)
	assert.True(t, ok)
}

func TestGenerateSpecial_Failure(t *testing.T) {
	env := newTestEnv(t, failingGenerator{})
	before := len(env.state.Catalog.List())

	rec := env.do(t, http.MethodPost, "/menu/specials/generate", `{"ingredients":"秋刀魚"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, menugen.FailureMessage, body["error"])
	assert.Len(t, env.state.Catalog.List(), before, "no fallback item on failure")
}

func TestGenerateSpecial_NeedsIngredients(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/menu/specials/generate", `{"ingredients":"  "}`).Code)
}

func TestTableMode(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodGet, "/tables/2/mode", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"a_la_carte"}`, rec.Body.String())

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/tables/2/mode", `{"mode":"course_drink_plan"}`).Code)
	rec = env.do(t, http.MethodGet, "/tables/2/mode", "")
	assert.JSONEq(t, `{"mode":"course_drink_plan"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/tables/2/mode", `{"mode":"buffet"}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/tables/8/mode", "").Code)
}

func TestFoodAcceptance(t *testing.T) {
	env := newTestEnv(t, menugen.Mock{})

	rec := env.do(t, http.MethodGet, "/policy/food-acceptance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accepted":true}`, rec.Body.String())

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/policy/food-acceptance", `{"accepted":false}`).Code)
	accepted, err := env.state.Policy.IsFoodAccepted(context.Background())
	require.NoError(t, err)
	assert.False(t, accepted)
}
