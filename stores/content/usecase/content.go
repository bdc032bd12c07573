package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tonscope/goapi/base/cell"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	"github.com/tonscope/goapi/base/metrics"
	"github.com/tonscope/goapi/base/ptr"
	"github.com/tonscope/goapi/domain"
	"golang.org/x/xerrors"
)

var (
	met     metrics.Service
	metOnce sync.Once

	// gateway urls with an ipfs host segment count as ipfs-hosted even when
	// the scheme is already https
	ipfsUriPattern = regexp.MustCompile(`ipfs[.:]`)
)

const (
	// dictionary keys are sha256 digests of the field name
	contentKeyBits = 256

	// first snake fragment must open with this byte
	snakePrefix = 0x00

	ipfsGatewayPrefix = "https://ipfs.io/ipfs/"
	ipfsSchemePrefix  = "ipfs://"
)

type ContentUseCaseCfg struct {
	TonClient     domain.TonClientRepo
	WebResourceUC domain.WebResourceUseCase
}

type contentUseCase struct {
	tonClient     domain.TonClientRepo
	webResourceUC domain.WebResourceUseCase
}

func NewContentUseCase(cfg *ContentUseCaseCfg) domain.ContentUseCase {
	metOnce.Do(func() {
		met = metrics.New("decoder")
	})
	return &contentUseCase{
		tonClient:     cfg.TonClient,
		webResourceUC: cfg.WebResourceUC,
	}
}

func (u *contentUseCase) DecodeJettonContent(c bCtx.Ctx, content *cell.Cell) (*domain.ResolvedMetadata, error) {
	return u.decodeContent(c, content)
}

func (u *contentUseCase) DecodeNftCollectionContent(c bCtx.Ctx, content *cell.Cell) (*domain.ResolvedMetadata, error) {
	return u.decodeContent(c, content)
}

// DecodeNftItemContent resolves a collection member's metadata document. The
// collection contract combines the item's content cell into a full content
// cell; its byte string is the base path, and the item cell's own bytes, when
// present, append to it with no separator.
func (u *contentUseCase) DecodeNftItemContent(c bCtx.Ctx, individualContent *cell.Cell, collection domain.Address, index *big.Int) (*domain.Metadata, error) {
	defer met.BumpTime("decode.time", "kind", "item").End()

	res, err := u.tonClient.RunGetMethod(c, collection, "get_nft_content", []domain.CallArg{
		domain.NumArg(index),
		domain.CellArg(individualContent),
	})
	if err != nil {
		c.WithFields(log.Fields{
			"collection": collection,
			"err":        err,
		}).Error("get_nft_content failed")
		met.BumpSum("decode.err", 1, "kind", "remote_call")
		return nil, err
	}
	combined, err := res.ReadCell()
	if err != nil {
		c.WithFields(log.Fields{
			"collection": collection,
			"err":        err,
		}).Error("failed to read combined content cell")
		met.BumpSum("decode.err", 1, "kind", "remote_call")
		return nil, err
	}

	s := combined.BeginParse()
	tag, err := s.LoadUint(8)
	if err != nil {
		c.WithField("err", err).Error("failed to read combined content tag")
		met.BumpSum("decode.err", 1, "kind", "underrun")
		return nil, err
	}
	if tag == domain.ContentTagOnChain {
		met.BumpSum("decode.err", 1, "kind", "unsupported_encoding")
		return nil, xerrors.Errorf("combined item content is on-chain: %w", domain.ErrUnsupportedContentEncoding)
	}
	if tag != domain.ContentTagOffChain {
		met.BumpSum("decode.err", 1, "kind", "unrecognized_format")
		return nil, xerrors.Errorf("content tag %#02x: %w", tag, domain.ErrUnrecognizedContentFormat)
	}

	baseRaw, err := decodeInlineBytes(s)
	if err != nil {
		c.WithField("err", err).Error("failed to decode base path")
		met.BumpSum("decode.err", 1, "kind", "unsupported_encoding")
		return nil, err
	}
	uri := rewriteIpfsUri(string(baseRaw))

	if individualContent.BitsCount() > 0 {
		fragRaw, err := decodeInlineBytes(individualContent.BeginParse())
		if err != nil {
			c.WithField("err", err).Error("failed to decode item path fragment")
			met.BumpSum("decode.err", 1, "kind", "unsupported_encoding")
			return nil, err
		}
		uri += string(fragRaw)
	}

	body, err := u.webResourceUC.GetJson(c, uri)
	if err != nil {
		c.WithFields(log.Fields{
			"uri": uri,
			"err": err,
		}).Error("failed to fetch item metadata")
		met.BumpSum("decode.err", 1, "kind", "fetch")
		return nil, err
	}
	return &domain.Metadata{RawMessage: body}, nil
}

func (u *contentUseCase) decodeContent(c bCtx.Ctx, content *cell.Cell) (*domain.ResolvedMetadata, error) {
	defer met.BumpTime("decode.time", "kind", "full").End()

	desc, err := u.dispatch(c, content)
	if err != nil {
		return nil, err
	}
	if desc.OnChain != nil {
		return u.resolveOnChain(c, desc.OnChain)
	}
	return u.resolveOffChain(c, desc.OffChain)
}

// dispatch classifies a content cell by its leading tag byte.
func (u *contentUseCase) dispatch(c bCtx.Ctx, content *cell.Cell) (*domain.ContentDescriptor, error) {
	s := content.BeginParse()
	tag, err := s.LoadUint(8)
	if err != nil {
		c.WithField("err", err).Error("failed to read content tag")
		met.BumpSum("decode.err", 1, "kind", "underrun")
		return nil, err
	}
	switch tag {
	case domain.ContentTagOnChain:
		onChain, err := u.parseOnChain(c, s)
		if err != nil {
			return nil, err
		}
		return &domain.ContentDescriptor{OnChain: onChain}, nil
	case domain.ContentTagOffChain:
		offChain, err := u.parseOffChain(c, s)
		if err != nil {
			return nil, err
		}
		return &domain.ContentDescriptor{OffChain: offChain}, nil
	default:
		c.WithField("tag", tag).Error("unrecognized content tag")
		met.BumpSum("decode.err", 1, "kind", "unrecognized_format")
		return nil, xerrors.Errorf("content tag %#02x: %w", tag, domain.ErrUnrecognizedContentFormat)
	}
}

func (u *contentUseCase) parseOnChain(c bCtx.Ctx, s *cell.Slice) (*domain.OnChainContent, error) {
	dict, err := cell.LoadDict(s, contentKeyBits)
	if err != nil {
		c.WithField("err", err).Error("failed to load content dictionary")
		met.BumpSum("decode.err", 1, "kind", "dictionary")
		return nil, err
	}

	// a value with no indirection ref marks the whole record faulty
	faulty := false
	for _, field := range domain.KnownMetadataFields {
		if value, ok := dict[fieldKey(field)]; ok && value.RefsCount() == 0 {
			faulty = true
			break
		}
	}
	if faulty {
		met.BumpSum("decode.faulty_encoding", 1)
	}

	return &domain.OnChainContent{
		Dictionary:     dict,
		FaultyEncoding: faulty,
	}, nil
}

func (u *contentUseCase) parseOffChain(c bCtx.Ctx, s *cell.Slice) (*domain.OffChainContent, error) {
	raw, err := decodeInlineBytes(s)
	if err != nil {
		c.WithField("err", err).Error("failed to decode content uri")
		met.BumpSum("decode.err", 1, "kind", "unsupported_encoding")
		return nil, err
	}
	uri := rewriteIpfsUri(string(raw))
	return &domain.OffChainContent{
		Uri:    uri,
		IsIpfs: ipfsUriPattern.MatchString(uri),
	}, nil
}

func (u *contentUseCase) resolveOnChain(c bCtx.Ctx, onChain *domain.OnChainContent) (*domain.ResolvedMetadata, error) {
	record := domain.MetadataRecord{}
	for _, field := range domain.KnownMetadataFields {
		value, ok := onChain.Dictionary[fieldKey(field)]
		if !ok {
			continue
		}
		raw, err := decodeFieldValue(value)
		if err == nil {
			err = setRecordField(&record, field, raw)
		}
		if err != nil {
			c.WithFields(log.Fields{
				"field": field,
				"err":   err,
			}).Error("failed to decode metadata field")
			met.BumpSum("decode.err", 1, "kind", "field")
			return nil, err
		}
	}

	var mimeType *string
	if len(record.ImageData) > 0 {
		mimeType = ptr.String(mimetype.Detect(record.ImageData).String())
	}
	return &domain.ResolvedMetadata{
		Persistence:       domain.ContentPersistenceOnChain,
		Record:            record,
		FaultyOnchainData: ptr.Bool(onChain.FaultyEncoding),
		ImageDataMimeType: mimeType,
	}, nil
}

func (u *contentUseCase) resolveOffChain(c bCtx.Ctx, offChain *domain.OffChainContent) (*domain.ResolvedMetadata, error) {
	body, err := u.webResourceUC.GetJson(c, offChain.Uri)
	if err != nil {
		c.WithFields(log.Fields{
			"uri": offChain.Uri,
			"err": err,
		}).Error("failed to fetch metadata")
		met.BumpSum("decode.err", 1, "kind", "fetch")
		return nil, err
	}

	record, err := recordFromJson(body)
	if err != nil {
		c.WithFields(log.Fields{
			"uri": offChain.Uri,
			"err": err,
		}).Error("failed to map metadata fields")
		met.BumpSum("decode.err", 1, "kind", "field")
		return nil, err
	}

	var mimeType *string
	if len(record.ImageData) > 0 {
		mimeType = ptr.String(mimetype.Detect(record.ImageData).String())
	}

	persistence := domain.ContentPersistenceOffChainPrivate
	if offChain.IsIpfs {
		persistence = domain.ContentPersistenceOffChainIpfs
	}
	return &domain.ResolvedMetadata{
		Persistence:       persistence,
		Record:            record,
		ImageDataMimeType: mimeType,
		Raw:               &domain.Metadata{RawMessage: body},
	}, nil
}

// recordFromJson maps the known fields out of a metadata document. Unknown
// fields are left to the raw message. Decimals may arrive as a json number
// or string and is kept in its text form.
func recordFromJson(body []byte) (domain.MetadataRecord, error) {
	var doc struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Image       *string         `json:"image"`
		Symbol      *string         `json:"symbol"`
		ImageData   []byte          `json:"image_data"`
		Decimals    json.RawMessage `json:"decimals"`
	}
	record := domain.MetadataRecord{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return record, xerrors.Errorf("unmarshal metadata: %v: %w", err, domain.ErrInvalidJsonFormat)
	}
	record.Name = doc.Name
	record.Description = doc.Description
	record.Image = doc.Image
	record.Symbol = doc.Symbol
	record.ImageData = doc.ImageData
	if len(doc.Decimals) > 0 && string(doc.Decimals) != "null" {
		var text string
		if err := json.Unmarshal(doc.Decimals, &text); err != nil {
			var num json.Number
			if err := json.Unmarshal(doc.Decimals, &num); err != nil {
				return record, xerrors.Errorf("decimals %s: %w", doc.Decimals, domain.ErrInvalidJsonFormat)
			}
			text = num.String()
		}
		record.Decimals = &text
	}
	return record, nil
}

// decodeFieldValue reassembles a dictionary value's byte string. The
// canonical form holds the snake chain under the value's first reference; a
// value with no references carries the chain at its root.
func decodeFieldValue(value *cell.Cell) ([]byte, error) {
	s := value.BeginParse()
	if value.RefsCount() == 0 {
		return decodeSnake(s)
	}
	root, err := s.LoadRef()
	if err != nil {
		return nil, err
	}
	return decodeSnake(root.BeginParse())
}

// decodeSnake walks a fragment chain. The first fragment must open with the
// snake prefix byte; every fragment contributes its remaining bits padded to
// whole bytes, and exactly one remaining reference continues the chain.
func decodeSnake(s *cell.Slice) ([]byte, error) {
	buf := []byte{}
	first := true
	for {
		if first {
			prefix, err := s.LoadUint(8)
			if err != nil {
				return nil, err
			}
			if prefix != snakePrefix {
				return nil, xerrors.Errorf("snake prefix %#02x: %w", prefix, domain.ErrUnsupportedContentEncoding)
			}
			first = false
		}
		if rest := s.RestBits(); rest > 0 {
			data, err := s.LoadBits(rest)
			if err != nil {
				return nil, err
			}
			buf = append(buf, data...)
		}
		if s.RestRefs() != 1 {
			return buf, nil
		}
		next, err := s.LoadRef()
		if err != nil {
			return nil, err
		}
		s = next.BeginParse()
	}
}

// decodeInlineBytes reads a single inline byte string, the whole remainder
// of the slice. A continuation reference here is outside the standard.
func decodeInlineBytes(s *cell.Slice) ([]byte, error) {
	if refs := s.RestRefs(); refs != 0 {
		return nil, xerrors.Errorf("inline byte string carries %d refs: %w", refs, domain.ErrUnsupportedContentEncoding)
	}
	rest := s.RestBits()
	if rest == 0 {
		return []byte{}, nil
	}
	return s.LoadBits(rest)
}

// setRecordField assigns a decoded byte string to its record field. Text
// fields must hold valid utf-8; image passes through as-is since a uri is
// plain ascii, and image_data stays raw.
func setRecordField(record *domain.MetadataRecord, field string, raw []byte) error {
	switch field {
	case domain.MetadataFieldImage:
		record.Image = ptr.String(string(raw))
		return nil
	case domain.MetadataFieldImageData:
		record.ImageData = raw
		return nil
	}
	if !utf8.Valid(raw) {
		return xerrors.Errorf("field %s is not valid utf-8: %w", field, domain.ErrUnsupportedContentEncoding)
	}
	text := string(raw)
	switch field {
	case domain.MetadataFieldName:
		record.Name = &text
	case domain.MetadataFieldDescription:
		record.Description = &text
	case domain.MetadataFieldSymbol:
		record.Symbol = &text
	case domain.MetadataFieldDecimals:
		record.Decimals = &text
	}
	return nil
}

// fieldKey derives the dictionary key for a metadata field name.
func fieldKey(name string) string {
	digest := sha256.Sum256([]byte(name))
	return hex.EncodeToString(digest[:])
}

func rewriteIpfsUri(uri string) string {
	if strings.HasPrefix(uri, ipfsSchemePrefix) {
		return ipfsGatewayPrefix + strings.TrimPrefix(uri, ipfsSchemePrefix)
	}
	return uri
}
