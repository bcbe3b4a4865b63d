// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package alert implements the TLS Alert protocol, RFC 5246 Section 7.2.
package alert

import "fmt"

// Level is the alert severity.
type Level uint8

// Alert levels.
const (
	Warning Level = 1
	Fatal   Level = 2
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "Warning"
	case Fatal:
		return "Fatal"
	default:
		return "Invalid"
	}
}

// Description identifies the alert, RFC 5246 Section 7.2.2.
type Description uint8

// Alert descriptions this driver can emit or must recognize on the wire.
const (
	CloseNotify            Description = 0
	UnexpectedMessage      Description = 10
	BadRecordMAC           Description = 20
	DecryptionFailed       Description = 21
	RecordOverflow         Description = 22
	DecompressionFailure   Description = 30
	HandshakeFailure       Description = 40
	NoCertificate          Description = 41
	BadCertificate         Description = 42
	UnsupportedCertificate Description = 43
	CertificateRevoked     Description = 44
	CertificateExpired     Description = 45
	CertificateUnknown     Description = 46
	IllegalParameter       Description = 47
	UnknownCA              Description = 48
	AccessDenied           Description = 49
	DecodeError            Description = 50
	DecryptError           Description = 51
	ProtocolVersion        Description = 70
	InsufficientSecurity   Description = 71
	InternalError          Description = 80
	UserCanceled           Description = 90
	NoRenegotiation        Description = 100
	UnsupportedExtension   Description = 110
)

// Alert is a single alert-protocol record payload: a two byte {level,
// description} pair.
type Alert struct {
	Level       Level
	Description Description
}

func (a *Alert) String() string {
	return fmt.Sprintf("Alert %s: %s", a.Level, a.descriptionString())
}

func (a *Alert) descriptionString() string {
	names := map[Description]string{
		CloseNotify:            "CloseNotify",
		UnexpectedMessage:      "UnexpectedMessage",
		BadRecordMAC:           "BadRecordMAC",
		DecryptionFailed:       "DecryptionFailed",
		RecordOverflow:         "RecordOverflow",
		DecompressionFailure:   "DecompressionFailure",
		HandshakeFailure:       "HandshakeFailure",
		NoCertificate:          "NoCertificate",
		BadCertificate:         "BadCertificate",
		UnsupportedCertificate: "UnsupportedCertificate",
		CertificateRevoked:     "CertificateRevoked",
		CertificateExpired:     "CertificateExpired",
		CertificateUnknown:     "CertificateUnknown",
		IllegalParameter:       "IllegalParameter",
		UnknownCA:              "UnknownCA",
		AccessDenied:           "AccessDenied",
		DecodeError:            "DecodeError",
		DecryptError:           "DecryptError",
		ProtocolVersion:        "ProtocolVersion",
		InsufficientSecurity:   "InsufficientSecurity",
		InternalError:          "InternalError",
		UserCanceled:           "UserCanceled",
		NoRenegotiation:        "NoRenegotiation",
		UnsupportedExtension:   "UnsupportedExtension",
	}
	if n, ok := names[a.Description]; ok {
		return n
	}
	return "Unknown"
}

// Marshal encodes the alert as its two-byte wire form.
func (a *Alert) Marshal() ([]byte, error) {
	return []byte{byte(a.Level), byte(a.Description)}, nil
}

// Unmarshal decodes a two-byte alert record payload.
func (a *Alert) Unmarshal(data []byte) error {
	if len(data) != 2 {
		return errBufferTooSmall
	}
	a.Level = Level(data[0])
	a.Description = Description(data[1])
	return nil
}

// IsFatalOrCloseNotify reports whether the connection must be torn down
// after this alert: any Fatal alert, or a Warning-level close_notify.
func (a *Alert) IsFatalOrCloseNotify() bool {
	return a.Level == Fatal || a.Description == CloseNotify
}

// Error implements the error interface so an *Alert can be returned and
// matched with errors.As by callers that need to distinguish a peer alert
// from a locally detected protocol violation.
type Error struct {
	*Alert
}

func (e *Error) Error() string {
	return e.Alert.String()
}
