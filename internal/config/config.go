// Package config centraliza la configuración por variables de entorno,
// con defaults pensados para desarrollo local.
package config

import (
	"os"
	"time"
)

type Config struct {
	Addr string

	// DBDSN vacío = almacén in-memory.
	DBDSN string

	// Rutas PEM de las claves RSA de los tokens. Ambas vacías = modo dev
	// sin verificación (headers X-Debug-*).
	JWTPrivateKeyFile string
	JWTPublicKeyFile  string
	TokenTTL          time.Duration

	// Directorio de imágenes de mascotas.
	MediaDir string
}

func FromEnv() Config {
	cfg := Config{
		Addr:              ":8080",
		DBDSN:             os.Getenv("DB_DSN"),
		JWTPrivateKeyFile: os.Getenv("JWT_PRIVATE_KEY_FILE"),
		JWTPublicKeyFile:  os.Getenv("JWT_PUBLIC_KEY_FILE"),
		TokenTTL:          24 * time.Hour,
		MediaDir:          "data/media",
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("MEDIA_DIR"); v != "" {
		cfg.MediaDir = v
	}
	return cfg
}
