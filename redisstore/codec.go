package redisstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	lifegate "github.com/orvanta/lifegate"
)

// Record layouts are versioned so projections and resolvers can roll
// independently. Decoders reject unknown versions as corrupt rather than
// guessing.
const (
	membershipCodecVersion   byte = 1
	organizationCodecVersion byte = 1
	billingCodecVersion      byte = 1
)

func encodeMembership(rec *lifegate.MembershipRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(membershipCodecVersion)
	if err := writeString(&buf, rec.OrgID); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(rec.Role))
	buf.WriteByte(byte(rec.Status))
	return buf.Bytes(), nil
}

func decodeMembership(data []byte) (*lifegate.MembershipRecord, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil || version != membershipCodecVersion {
		return nil, fmt.Errorf("%w: bad membership version", ErrCorruptRecord)
	}
	var rec lifegate.MembershipRecord
	if rec.OrgID, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	role, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	status, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	rec.Role = lifegate.OrgRole(role)
	rec.Status = lifegate.MemberStatus(status)
	return &rec, nil
}

func encodeOrganization(rec *lifegate.OrganizationRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(organizationCodecVersion)
	if err := writeString(&buf, rec.Name); err != nil {
		return nil, err
	}
	if err := writeString(&buf, rec.ImageURL); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeOrganization(data []byte) (*lifegate.OrganizationRecord, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil || version != organizationCodecVersion {
		return nil, fmt.Errorf("%w: bad organization version", ErrCorruptRecord)
	}
	var rec lifegate.OrganizationRecord
	if rec.Name, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if rec.ImageURL, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &rec, nil
}

func encodeBilling(status lifegate.BillingStatus) []byte {
	return []byte{billingCodecVersion, byte(status)}
}

func decodeBilling(data []byte) (lifegate.BillingStatus, error) {
	if len(data) != 2 || data[0] != billingCodecVersion {
		return lifegate.BillingUnknown, fmt.Errorf("%w: bad billing record", ErrCorruptRecord)
	}
	return lifegate.BillingStatus(data[1]), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("%w: string too long", ErrCorruptRecord)
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
