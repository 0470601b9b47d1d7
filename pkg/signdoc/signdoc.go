// Package signdoc builds the amino "sign data" document that both chains sign to prove
// control of an address. The document is a proof of control envelope, not a transaction:
// every numeric field is the literal "0" and the fee is empty.
package signdoc

import (
	"encoding/base64"
	"strconv"
	"time"
)

// MsgSignDataType is the amino type of the single message in a sign document
const MsgSignDataType = "sign/MsgSignData"

const zero = "0"

// Coin is an amount of a single denomination
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Fee is the fee section of a sign document
type Fee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// MsgValue carries the signer address and the base64 encoded payload
type MsgValue struct {
	Signer string `json:"signer"`
	Data   string `json:"data"`
}

// Msg is an amino encoded message
type Msg struct {
	Type  string   `json:"type"`
	Value MsgValue `json:"value"`
}

// StdSignDoc is the document that gets canonicalized, hashed and signed
type StdSignDoc struct {
	ChainID       string `json:"chain_id"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
	Fee           Fee    `json:"fee"`
	Msgs          []Msg  `json:"msgs"`
	Memo          string `json:"memo"`
}

// Build wraps payload in a sign document for signer
func Build(signer string, payload []byte) StdSignDoc {
	return StdSignDoc{
		ChainID:       "",
		AccountNumber: zero,
		Sequence:      zero,
		Fee: Fee{
			Amount: []Coin{},
			Gas:    zero,
		},
		Msgs: []Msg{
			{
				Type: MsgSignDataType,
				Value: MsgValue{
					Signer: signer,
					Data:   base64.StdEncoding.EncodeToString(payload),
				},
			},
		},
		Memo: "",
	}
}

// Signer returns the signer of the first message, or "" if there is none
func (d StdSignDoc) Signer() string {
	if len(d.Msgs) == 0 {
		return ""
	}
	return d.Msgs[0].Value.Signer
}

// TimestampPayload returns base64 of the decimal millisecond timestamp of t
func TimestampPayload(t time.Time) []byte {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	return []byte(base64.StdEncoding.EncodeToString([]byte(ms)))
}
