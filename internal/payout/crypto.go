package payout

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// CryptoProvider records an on-chain style payout from a treasury address.
// The reference is a keccak256 digest of the payout fields, so the same
// cashout always maps to the same reference.
type CryptoProvider struct {
	treasury common.Address
}

func NewCryptoProvider(treasury string) (*CryptoProvider, error) {
	if !common.IsHexAddress(treasury) {
		return nil, domain.ErrInvalidTreasuryAddress
	}
	return &CryptoProvider{treasury: common.HexToAddress(treasury)}, nil
}

func (p *CryptoProvider) Name() string { return ProviderCrypto }

// Treasury returns the checksummed treasury address
func (p *CryptoProvider) Treasury() string { return p.treasury.Hex() }

func (p *CryptoProvider) CreatePayout(_ context.Context, req Request) (string, error) {
	if req.CashoutID == "" || req.PlayerID == "" {
		return "", failure(ProviderCrypto, ErrMsgIncompleteRequest)
	}
	if !req.Amount.IsPositive() {
		return "", failure(ProviderCrypto, domain.ErrMsgBadAmount)
	}

	hash := ethcrypto.Keccak256Hash(
		p.treasury.Bytes(),
		[]byte(req.CashoutID),
		[]byte(req.PlayerID),
		[]byte(req.Amount.String()),
		[]byte(strings.ToUpper(string(req.Currency))),
	)
	return hash.Hex(), nil
}
