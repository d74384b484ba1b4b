package engine

import (
	"encoding/json"

	"github.com/duneanalytics/block-to-payload/canonical"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
)

const (
	MethodNewPayloadV1 = "engine_newPayloadV1"
	MethodNewPayloadV2 = "engine_newPayloadV2"
	MethodNewPayloadV3 = "engine_newPayloadV3"
)

// NewPayloadRequest is one engine_newPayload call. VersionedHashes and ParentBeaconBlockRoot
// are only sent with a V3 payload.
type NewPayloadRequest struct {
	Payload               ExecutionPayload
	VersionedHashes       []common.Hash
	ParentBeaconBlockRoot *common.Hash
}

// NewRequest converts a sealed block into the call that submits it.
func NewRequest(block *canonical.SealedBlock) (*NewPayloadRequest, error) {
	payload, err := NewPayload(block)
	if err != nil {
		return nil, err
	}
	req := &NewPayloadRequest{Payload: payload}
	if payload.Version() == V3 {
		req.VersionedHashes = block.BlobVersionedHashes()
		req.ParentBeaconBlockRoot = block.Header().Header().ParentBeaconRoot
	}
	return req, nil
}

func (r *NewPayloadRequest) Version() Version {
	return r.Payload.Version()
}

func (r *NewPayloadRequest) Method() string {
	switch r.Version() {
	case V2:
		return MethodNewPayloadV2
	case V3:
		return MethodNewPayloadV3
	default:
		return MethodNewPayloadV1
	}
}

// Params serializes the positional parameters: the payload alone for V1 and V2, and
// (payload, expectedBlobVersionedHashes, parentBeaconBlockRoot) for V3.
func (r *NewPayloadRequest) Params() ([]json.RawMessage, error) {
	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, errors.Errorf("failed to serialize payload: %w", err)
	}
	if r.Version() != V3 {
		return []json.RawMessage{payload}, nil
	}

	if r.ParentBeaconBlockRoot == nil {
		return nil, ErrMissingBeaconRoot
	}
	hashes := r.VersionedHashes
	if hashes == nil {
		hashes = []common.Hash{}
	}
	versionedHashes, err := json.Marshal(hashes)
	if err != nil {
		return nil, errors.Errorf("failed to serialize blob versioned hashes: %w", err)
	}
	root, err := json.Marshal(r.ParentBeaconBlockRoot)
	if err != nil {
		return nil, errors.Errorf("failed to serialize parent beacon block root: %w", err)
	}
	return []json.RawMessage{payload, versionedHashes, root}, nil
}
