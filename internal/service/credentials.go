package service

import (
	"encoding/json"

	"github.com/nichelab/brandbrain/internal/transfer"
	"github.com/nichelab/brandbrain/pkg/utils"
)

func sealCredentials(creds *transfer.XCredentials, secret string) (string, error) {
	b, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	return utils.Encrypt(b, []byte(secret))
}

func openCredentials(sealed, secret string) (*transfer.XCredentials, error) {
	plaintext, err := utils.Decrypt(sealed, []byte(secret))
	if err != nil {
		return nil, err
	}

	var creds transfer.XCredentials
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
