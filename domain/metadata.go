package domain

import (
	"encoding/json"
)

// Metadata is a fetched metadata JSON document, passed through unparsed so
// fields outside the known set survive.
type Metadata struct {
	json.RawMessage
}

// MetadataRecord maps the closed set of known metadata fields to optional
// decoded values. A missing field stays nil, it is not an error.
type MetadataRecord struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Symbol      *string `json:"symbol,omitempty"`
	ImageData   []byte  `json:"image_data,omitempty"`
	Decimals    *string `json:"decimals,omitempty"`
}

// metadata field names defined by the content standard
const (
	MetadataFieldName        = "name"
	MetadataFieldDescription = "description"
	MetadataFieldImage       = "image"
	MetadataFieldSymbol      = "symbol"
	MetadataFieldImageData   = "image_data"
	MetadataFieldDecimals    = "decimals"
)

// KnownMetadataFields lists every field the on-chain parser looks up.
var KnownMetadataFields = []string{
	MetadataFieldName,
	MetadataFieldDescription,
	MetadataFieldImage,
	MetadataFieldSymbol,
	MetadataFieldImageData,
	MetadataFieldDecimals,
}

// ContentPersistence classifies where resolved metadata lives.
type ContentPersistence string

const (
	ContentPersistenceOnChain         ContentPersistence = "onchain"
	ContentPersistenceOffChainPrivate ContentPersistence = "offchain_private_domain"
	ContentPersistenceOffChainIpfs    ContentPersistence = "offchain_ipfs"
)

// ResolvedMetadata is the final decode output: the persistence
// classification, the record, the faulty-encoding flag for on-chain content,
// and the raw fetched document for off-chain content.
type ResolvedMetadata struct {
	Persistence       ContentPersistence `json:"persistence"`
	Record            MetadataRecord     `json:"metadata"`
	FaultyOnchainData *bool              `json:"faultyOnchainData,omitempty"`
	ImageDataMimeType *string            `json:"imageDataMimeType,omitempty"`
	Raw               *Metadata          `json:"raw,omitempty"`
}
