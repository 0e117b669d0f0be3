package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("driver = %q, want mongo default", cfg.StoreDriver)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.Pricing.TPL != 300 || cfg.Pricing.RegTransport != 150 || cfg.Pricing.RoadsideTransport != 100 {
		t.Fatalf("unexpected default pricing: %+v", cfg.Pricing)
	}
	if cfg.DispatchTimeout != 30*time.Second {
		t.Fatalf("dispatch timeout = %s", cfg.DispatchTimeout)
	}
	if cfg.AdminEnabled() {
		t.Fatal("admin enabled without credentials")
	}
	if cfg.ArchiveEnabled() {
		t.Fatal("archive enabled without a bucket")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/riderbot?sslmode=disable")
	t.Setenv("PRICE_TPL", "450")
	t.Setenv("ADMIN_PASS", "secret")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("S3_MEDIA_BUCKET", "riderbot-media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StoreDriver != DriverPostgres {
		t.Fatalf("driver = %q", cfg.StoreDriver)
	}
	if cfg.Pricing.TPL != 450 {
		t.Fatalf("tpl price = %d, want 450", cfg.Pricing.TPL)
	}
	if !cfg.AdminEnabled() || !cfg.ArchiveEnabled() {
		t.Fatal("admin or archive not enabled")
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("unknown store driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "dynamodb")
		if _, err := Load(); err == nil {
			t.Fatal("unknown driver accepted")
		}
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("POSTGRES_DSN", "")
		if _, err := Load(); err == nil {
			t.Fatal("postgres driver without DSN accepted")
		}
	})

	t.Run("admin without jwt secret", func(t *testing.T) {
		t.Setenv("ADMIN_PASS", "secret")
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatal("admin password without JWT secret accepted")
		}
	})
}

// The export command loads configuration without messaging credentials;
// those belong to the provider and are checked only when one is built.
func TestLoadWithoutWhatsAppCredentials(t *testing.T) {
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")
	t.Setenv("STORE_DRIVER", "memory")

	if _, err := Load(); err != nil {
		t.Fatalf("load without provider credentials: %v", err)
	}
}
