package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Lengths of the generated secrets
const (
	accountPasswordLen = 16
	configPasswordLen  = 32
	userKeySaltLen     = 32
)

// DeviceConfig is the innermost JSON sealed under the config password
type DeviceConfig struct {
	DatabaseURL   string `json:"databaseUrl"`
	VehicleUID    string `json:"vehicleUid"`
	UserKey       string `json:"userKey"`
	EncryptionKey string `json:"encryptionKey"`
}

// SealedConfig is the device config bundle plus what the device needs to open it
type SealedConfig struct {
	Bundle
	ConfigPassword string `json:"configPassword"`
	VehicleUID     string `json:"vehicleUid"`
}

// ProvisionRequest describes one tracker user to provision
type ProvisionRequest struct {
	Email       string
	Password    []byte // seals config_info
	DatabaseURL string
}

// ProvisionResult is what provisioning produced. ConfigInfo is the JSON
// bundle to hand to the user.
type ProvisionResult struct {
	UserID     string
	VehicleUID string
	UserKey    string
	ConfigInfo []byte
}

// provision creates the user account, seals the device config twice and
// registers the vehicle under the user key.
func provision(ctx context.Context, logger *slog.Logger, dir Directory, req ProvisionRequest) (*ProvisionResult, error) {
	accountPassword, err := RandomString(accountPasswordLen)
	if err != nil {
		return nil, err
	}
	configPassword, err := RandomString(configPasswordLen)
	if err != nil {
		return nil, err
	}

	uid, err := dir.CreateUser(ctx, req.Email, accountPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.Info("created user", "uid", uid)

	vehicleUID := uuid.NewString()

	keySalt, err := RandomString(userKeySaltLen)
	if err != nil {
		return nil, err
	}
	userKey := UserKey(uid, req.Email, configPassword, keySalt)

	paddedAccountPassword := pkcs7Pad([]byte(accountPassword), PasswordBlockSize)
	inner, err := json.Marshal(DeviceConfig{
		DatabaseURL:   req.DatabaseURL,
		VehicleUID:    vehicleUID,
		UserKey:       userKey,
		EncryptionKey: base64.StdEncoding.EncodeToString(paddedAccountPassword),
	})
	zeroBytes(paddedAccountPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal device config: %w", err)
	}

	configBundle, err := Seal(inner, []byte(configPassword))
	zeroBytes(inner)
	if err != nil {
		return nil, fmt.Errorf("failed to seal device config: %w", err)
	}

	outer, err := json.Marshal(SealedConfig{
		Bundle:         *configBundle,
		ConfigPassword: configPassword,
		VehicleUID:     vehicleUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sealed config: %w", err)
	}

	recordPath := "users/" + userKey + "/" + vehicleUID
	if err := dir.WriteRecord(ctx, recordPath, ""); err != nil {
		// The account already exists at this point and has to be removed by hand
		logger.Warn("user created without a vehicle record", "uid", uid, "email", req.Email)
		return nil, fmt.Errorf("failed to register vehicle for user %s (account left without a vehicle): %w", uid, err)
	}
	logger.Debug("registered vehicle", "vehicle_uid", vehicleUID)

	infoBundle, err := Seal(outer, req.Password)
	zeroBytes(outer)
	if err != nil {
		return nil, fmt.Errorf("failed to seal config info: %w", err)
	}
	configInfo, err := json.Marshal(infoBundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config info: %w", err)
	}

	return &ProvisionResult{
		UserID:     uid,
		VehicleUID: vehicleUID,
		UserKey:    userKey,
		ConfigInfo: configInfo,
	}, nil
}
