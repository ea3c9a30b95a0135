package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

// ctxCaptureStore wraps a Store and records the context the permission guard
// passes into the admin lookup.
type ctxCaptureStore struct {
	storage.Store
	lastCtx context.Context
}

func (s *ctxCaptureStore) Admins() storage.AdminRepository {
	return &ctxCaptureAdmins{AdminRepository: s.Store.Admins(), store: s}
}

type ctxCaptureAdmins struct {
	storage.AdminRepository
	store *ctxCaptureStore
}

func (r *ctxCaptureAdmins) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	r.store.lastCtx = ctx
	return r.AdminRepository.FindByID(ctx, id)
}

func newGuardFixture(t *testing.T) (*ctxCaptureStore, *config.Config) {
	t.Helper()
	files, err := jsondb.New(t.TempDir(), jsondb.NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "test-secret", TokenExpires: time.Hour}
	return &ctxCaptureStore{Store: storage.NewDocStore(files)}, cfg
}

func seedAdmin(t *testing.T, store storage.Store, role string, perms models.PermissionSet) *models.AdminUser {
	t.Helper()
	admin := &models.AdminUser{Name: "Ops", Email: role + "@curemart.example", Role: role, Permissions: perms}
	require.NoError(t, store.Admins().Create(context.Background(), admin))
	return admin
}

func guardApp(store storage.Store, cfg *config.Config, permission string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", Auth(cfg), RequireRole(utils.RoleAdmin), RequirePermission(store, permission),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		})
	return app
}

func TestRequirePermissionGrantsAndDenies(t *testing.T) {
	store, cfg := newGuardFixture(t)
	admin := seedAdmin(t, store, models.AdminRoleManager, models.PermissionSet{models.PermOrders: true})

	token, err := utils.GenerateToken(cfg.JWTSecret, admin.ID, utils.RoleAdmin, cfg.TokenExpires)
	require.NoError(t, err)

	granted := guardApp(store, cfg, models.PermOrders)
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := granted.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	denied := guardApp(store, cfg, models.PermUsers)
	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = denied.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionSuperAdminBypass(t *testing.T) {
	store, cfg := newGuardFixture(t)
	super := seedAdmin(t, store, models.AdminRoleSuper, nil)

	token, err := utils.GenerateToken(cfg.JWTSecret, super.ID, utils.RoleAdmin, cfg.TokenExpires)
	require.NoError(t, err)

	app := guardApp(store, cfg, models.PermSettings)
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequirePermissionUsesRequestContext(t *testing.T) {
	store, cfg := newGuardFixture(t)
	admin := seedAdmin(t, store, models.AdminRoleManager, models.PermissionSet{models.PermOrders: true})

	token, err := utils.GenerateToken(cfg.JWTSecret, admin.ID, utils.RoleAdmin, cfg.TokenExpires)
	require.NoError(t, err)

	app := guardApp(store, cfg, models.PermOrders)
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = app.Test(req)
	require.NoError(t, err)

	// The lookup must run under the request's context so it is cancelled
	// together with the request.
	require.NotNil(t, store.lastCtx)
	assert.NotEqual(t, context.Background(), store.lastCtx)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	store, cfg := newGuardFixture(t)
	admin := seedAdmin(t, store, models.AdminRoleManager, models.FullPermissions())

	token, err := utils.GenerateToken(cfg.JWTSecret, admin.ID, utils.RoleCustomer, cfg.TokenExpires)
	require.NoError(t, err)

	app := guardApp(store, cfg, models.PermOrders)
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	store, cfg := newGuardFixture(t)
	app := guardApp(store, cfg, models.PermOrders)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
