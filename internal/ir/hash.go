package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInstance = "gqa/instance/v1"
	DomainGraph    = "gqa/graph/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InstanceID computes the content-addressed id of a generated question.
// Two instances with the same graph, template, tree and answer share an id,
// which is what makes store writes idempotent.
func InstanceID(graphID, typeString string, functional IRObject, answer IRValue) (string, error) {
	obj := IRObject{
		"graph_id":    IRString(graphID),
		"type_string": IRString(typeString),
		"functional":  functional,
		"answer":      answer,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("InstanceID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInstance, canonical), nil
}

// Digest hashes an arbitrary value under the graph domain. Used to detect
// whether a stored graph changed under the same id.
func Digest(v IRValue) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainGraph, canonical), nil
}
