package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/errx"
	"github.com/ridermall/riderbot/logx"
	"github.com/ridermall/riderbot/requests"
)

var errUnauthorized = errx.New("invalid credentials", errx.TypeAuthorization)

// adminClaims is the token payload for admin sessions
type adminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// handleAdminLogin checks the configured credentials and issues a JWT
func (s *Server) handleAdminLogin(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errx.ToFiber(c, errx.New("malformed login payload", errx.TypeBadRequest))
	}

	userOK := subtle.ConstantTimeCompare([]byte(body.Username), []byte(s.opts.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(body.Password), []byte(s.opts.AdminPass)) == 1
	if !userOK || !passOK {
		logx.Warn("admin: failed login attempt for %q", body.Username)
		return errx.ToFiber(c, errUnauthorized)
	}

	ttl := time.Duration(s.opts.JWTTTL) * time.Second
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Username: body.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   body.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return errx.ToFiber(c, errx.Wrap(err, "signing token failed", errx.TypeInternal))
	}

	return c.JSON(fiber.Map{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(ttl.Seconds()),
	})
}

// requireJWT guards the admin routes
func (s *Server) requireJWT(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return errx.ToFiber(c, errx.New("missing bearer token", errx.TypeAuthorization))
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnauthorized
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return errx.ToFiber(c, errx.New("invalid or expired token", errx.TypeAuthorization))
	}

	c.Locals("admin_user", claims.Username)
	return c.Next()
}

// handleListRequests serves the filtered, paginated listing
func (s *Server) handleListRequests(c *fiber.Ctx) error {
	opts, err := listOptionsFromQuery(c)
	if err != nil {
		return errx.ToFiber(c, err)
	}

	page, err := s.opts.Store.List(c.Context(), opts)
	if err != nil {
		logx.Error("admin: listing requests failed: %v", err)
		return errx.ToFiber(c, err)
	}
	return c.JSON(page)
}

// handleExportRequests streams the same listing as CSV
func (s *Server) handleExportRequests(c *fiber.Ctx) error {
	opts, err := listOptionsFromQuery(c)
	if err != nil {
		return errx.ToFiber(c, err)
	}
	opts.Page = 0
	opts.PageSize = 0

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="service_requests.csv"`)

	if err := requests.ExportCSV(c.Context(), s.opts.Store, opts, c.Response().BodyWriter()); err != nil {
		logx.Error("admin: csv export failed: %v", err)
		return errx.ToFiber(c, err)
	}
	return nil
}

// handleUpdateStatus moves one request to a new status
func (s *Server) handleUpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errx.ToFiber(c, errx.New("malformed status payload", errx.TypeBadRequest))
	}

	status := dialogx.RequestStatus(body.Status)
	if !dialogx.ValidStatus(status) {
		return errx.ToFiber(c, errx.New("unknown request status "+body.Status, errx.TypeValidation))
	}

	id := c.Params("id")
	if err := s.opts.Store.UpdateStatus(c.Context(), id, status); err != nil {
		return errx.ToFiber(c, err)
	}

	logx.Info("admin: request %s moved to %s by %v", id, status, c.Locals("admin_user"))
	return c.JSON(fiber.Map{"id": id, "status": status})
}

// handleMediaProxy resolves a stored media id into the document bytes
func (s *Server) handleMediaProxy(c *fiber.Ctx) error {
	if s.opts.Resolver == nil {
		return errx.ToFiber(c, errx.New("media resolution not configured", errx.TypeUnavailable))
	}

	media, err := s.opts.Resolver.Fetch(c.Context(), c.Params("id"))
	if err != nil {
		logx.Error("admin: media fetch failed: %v", err)
		return errx.ToFiber(c, err)
	}

	if media.MimeType != "" {
		c.Set(fiber.HeaderContentType, media.MimeType)
	}
	return c.Send(media.Data)
}

func listOptionsFromQuery(c *fiber.Ctx) (requests.ListOptions, error) {
	opts := requests.ListOptions{
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 25),
		ServiceID: dialogx.ServiceID(c.Query("service_id")),
		Status:    dialogx.RequestStatus(c.Query("status")),
		UserID:    c.Query("user_id"),
	}

	if opts.Status != "" && !dialogx.ValidStatus(opts.Status) {
		return opts, errx.New("unknown status filter "+string(opts.Status), errx.TypeValidation)
	}
	return opts, nil
}
