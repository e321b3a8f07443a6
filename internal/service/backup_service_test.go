package service

import (
	"encoding/json"
	"errors"
	"testing"

	"mouna-backend/internal/model"
)

func TestValidateBackupRequiresUsersAndProducts(t *testing.T) {
	cases := []struct {
		name string
		doc  *BackupDocument
		ok   bool
	}{
		{"nil document", nil, false},
		{"missing users", &BackupDocument{Data: BackupData{Products: []model.Product{}}}, false},
		{"missing products", &BackupDocument{Data: BackupData{Users: []BackupUser{}}}, false},
		{"empty but present arrays", &BackupDocument{Data: BackupData{Users: []BackupUser{}, Products: []model.Product{}}}, true},
	}

	for _, tc := range cases {
		err := validateBackup(tc.doc)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidBackup) {
			t.Fatalf("%s: expected ErrInvalidBackup, got %v", tc.name, err)
		}
	}
}

func TestBackupDocumentParsesStructuralShape(t *testing.T) {
	// The restore endpoint receives this exact shape from a prior backup.
	payload := `{
		"timestamp": "2026-08-31T10:00:00Z",
		"version": "1.0",
		"data": {
			"users": [{"id":"b4f9a0a2-9f1e-4f54-a6fb-cfcf1ec0e55e","username":"admin","password":"$2a$10$hash","name":"المدير العام","role":"admin","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}],
			"products": [{"id":"7a1f3f1e-52a4-49cf-9d25-07d2f35f3a01","barcode":"6281007823","name":"حليب","quantity":3,"expiry":"2026-09-10T00:00:00Z"}],
			"categories": [],
			"auditLogs": []
		}
	}`

	var doc BackupDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatal(err)
	}
	if err := validateBackup(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Data.Users[0].Password == "" {
		t.Fatal("backup must carry the password hash")
	}
	if doc.Data.Products[0].Expiry == nil {
		t.Fatal("expiry must be re-parsed from its serialized form")
	}
}
