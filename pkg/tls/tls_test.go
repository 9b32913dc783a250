package tls

import (
	"path/filepath"
	"testing"
)

func TestEnsureCertGeneratesOnce(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")

	created, err := EnsureCert(certFile, keyFile, "respkit-test")
	if err != nil {
		t.Fatalf("EnsureCert: %v", err)
	}
	if !created {
		t.Fatal("expected certificate to be generated")
	}

	created, err = EnsureCert(certFile, keyFile, "respkit-test")
	if err != nil {
		t.Fatalf("EnsureCert second call: %v", err)
	}
	if created {
		t.Fatal("expected existing certificate to be reused")
	}

	cfg, err := LoadServerTLSConfig(certFile, keyFile, "")
	if err != nil {
		t.Fatalf("LoadServerTLSConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected one certificate, got %d", len(cfg.Certificates))
	}
}

func TestLoadServerTLSConfigMissingFiles(t *testing.T) {
	if _, err := LoadServerTLSConfig("no-such.crt", "no-such.key", ""); err == nil {
		t.Fatal("expected error for missing key pair")
	}
}
