// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// Message is a single TLS handshake message body: everything that follows
// the 4-byte header, RFC 5246 Section 7.4.
type Message interface {
	Type() Type
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// Handshake pairs a decoded message with the header it arrived under.
type Handshake struct {
	Header  Header
	Message Message
}

// Marshal encodes the header and message together.
func (h *Handshake) Marshal() ([]byte, error) {
	body, err := h.Message.Marshal()
	if err != nil {
		return nil, err
	}
	h.Header.Type = h.Message.Type()
	h.Header.Length = uint32(len(body))
	header, err := h.Header.Marshal()
	if err != nil {
		return nil, err
	}
	return append(header, body...), nil
}

// Unmarshal decodes the header, constructs the matching Message by wire
// type, and unmarshals the body into it.
func (h *Handshake) Unmarshal(data []byte) error {
	if err := h.Header.Unmarshal(data); err != nil {
		return err
	}
	if uint32(len(data)-HeaderLength) < h.Header.Length {
		return errBufferTooSmall
	}

	msg, err := newMessage(h.Header.Type)
	if err != nil {
		return err
	}
	if err := msg.Unmarshal(data[HeaderLength : HeaderLength+int(h.Header.Length)]); err != nil {
		return err
	}
	h.Message = msg
	return nil
}

func newMessage(t Type) (Message, error) {
	switch t {
	case TypeHelloRequest:
		return &MessageHelloRequest{}, nil
	case TypeClientHello:
		return &MessageClientHello{}, nil
	case TypeServerHello:
		return &MessageServerHello{}, nil
	case TypeNewSessionTicket:
		return &MessageNewSessionTicket{}, nil
	case TypeCertificate:
		return &MessageCertificate{}, nil
	case TypeServerKeyExchange:
		return &MessageServerKeyExchange{}, nil
	case TypeCertificateRequest:
		return &MessageCertificateRequest{}, nil
	case TypeServerHelloDone:
		return &MessageServerHelloDone{}, nil
	case TypeCertificateVerify:
		return &MessageCertificateVerify{}, nil
	case TypeClientKeyExchange:
		return &MessageClientKeyExchange{}, nil
	case TypeFinished:
		return &MessageFinished{}, nil
	case TypeCertificateStatus:
		return &MessageCertificateStatus{}, nil
	default:
		return nil, errUnknownMessageType
	}
}
