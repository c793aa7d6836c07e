package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cra/internal/core"
	"cra/internal/storage"
)

// ErrUnsupportedSignatureType is returned when an uploaded signature is
// not one of the allowed image types. The stored record is untouched.
var ErrUnsupportedSignatureType = errors.New("unsupported signature file type")

// signatureMIMETypes is the allow-list for signature uploads.
var signatureMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
}

// ContactService persists the contact record under its single fixed key.
// The record is shared by every period.
type ContactService struct {
	kv storage.KV
}

func NewContactService(kv storage.KV) *ContactService {
	return &ContactService{kv: kv}
}

// Load reads the contact record. A missing key or malformed JSON yields
// an empty record; corruption is never surfaced to the user.
func (s *ContactService) Load(ctx context.Context) (core.Contact, error) {
	raw, ok, err := s.kv.Get(ctx, core.ContactKey)
	if err != nil {
		return core.Contact{}, fmt.Errorf("load contact record: %w", err)
	}
	if !ok {
		return core.Contact{}, nil
	}
	var c core.Contact
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		slog.DebugContext(ctx, "Discarding malformed contact record", "error", err)
		return core.Contact{}, nil
	}
	return c, nil
}

// SetField sets one identity field (an empty value clears it) and
// persists immediately.
func (s *ContactService) SetField(ctx context.Context, c core.Contact, name, value string) (core.Contact, error) {
	out, err := c.WithField(name, value)
	if err != nil {
		return c, err
	}
	if err := s.save(ctx, out); err != nil {
		return c, err
	}
	return out, nil
}

// SetSignature stores the uploaded image as a data URI after checking
// the MIME allow-list. On rejection the record is returned unchanged and
// nothing is persisted.
func (s *ContactService) SetSignature(ctx context.Context, c core.Contact, data []byte, mimeType string) (core.Contact, error) {
	if !signatureMIMETypes[mimeType] {
		return c, fmt.Errorf("%w: %s", ErrUnsupportedSignatureType, mimeType)
	}

	out := c
	out.Signature = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	if err := s.save(ctx, out); err != nil {
		return c, err
	}
	return out, nil
}

func (s *ContactService) save(ctx context.Context, c core.Contact) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contact record: %w", err)
	}
	if err := s.kv.Put(ctx, core.ContactKey, string(data)); err != nil {
		return fmt.Errorf("save contact record: %w", err)
	}
	return nil
}
