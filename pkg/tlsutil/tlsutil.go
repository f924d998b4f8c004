// Package tlsutil loads TLS credentials for the OTLP trace exporter.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"google.golang.org/grpc/credentials"
)

// ClientCredentials builds gRPC client credentials. If caFile is set it becomes the
// only trusted root; otherwise the system pool is used.
func ClientCredentials(caFile string) (credentials.TransportCredentials, error) {
	tlsCfg, err := ClientTLSConfig(caFile)
	if err != nil {
		return nil, err
	}
	return credentials.NewTLS(tlsCfg), nil
}

// ClientTLSConfig returns the tls.Config behind ClientCredentials.
func ClientTLSConfig(caFile string) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if caFile == "" {
		return tlsCfg, nil
	}

	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("tlsutil: failed to parse CA certificate from %s", caFile)
	}
	tlsCfg.RootCAs = pool

	return tlsCfg, nil
}
