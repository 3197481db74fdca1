package transfer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/chain/evm"
)

// BuildTx turns a transfer request into the transaction handed to the wallet.
// Native assets become a plain value transfer; tokens become a zero-value
// call to the contract carrying transfer(recipient, amount).
func BuildTx(req domain.TransferRequest, from string, chainID uint64) (domain.TxRequest, error) {
	recipient := strings.TrimSpace(req.Recipient)
	if !domain.IsHexAddress(recipient) {
		return domain.TxRequest{}, fmt.Errorf("%w: %q", ErrInvalidRecipient, req.Recipient)
	}

	amount, err := ParseUnits(req.Amount, req.Asset.Decimals)
	if err != nil {
		return domain.TxRequest{}, err
	}

	if req.Asset.IsNative() {
		return domain.TxRequest{
			From:    from,
			To:      recipient,
			Value:   amount,
			ChainID: chainID,
		}, nil
	}

	data, err := evm.EncodeTransfer(recipient, amount)
	if err != nil {
		return domain.TxRequest{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return domain.TxRequest{
		From:    from,
		To:      req.Asset.Contract,
		Value:   new(big.Int),
		Data:    data,
		ChainID: chainID,
	}, nil
}
