package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"strconv"

	"onchaindice/internal/codec"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

const txAuthDomainV0 = "dice/tx/v0"

func txAuthSignBytesV0(typ string, value []byte, nonce string, signer string) []byte {
	// signBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomainV0)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomainV0)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return types.ErrUnauthorized.Wrap("missing tx.nonce")
	}
	if env.Signer == "" {
		return types.ErrUnauthorized.Wrap("missing tx.signer")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return types.ErrUnauthorized.Wrapf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

// authenticate checks a signed envelope and advances the signer's nonce.
// auth/register_account is verified against the key it registers, every
// other type against the signer's registered key.
func authenticate(st *state.State, env codec.TxEnvelope) error {
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}

	var pub []byte
	if env.Type == codec.TypeAuthRegisterAccount {
		msg, err := codec.DecodeValue[codec.AuthRegisterAccountTx](env)
		if err != nil {
			return types.ErrInvalidRequest.Wrap(err.Error())
		}
		pub = msg.PubKey
	} else {
		pub = st.AccountKeys[env.Signer]
		if len(pub) == 0 {
			return types.ErrUnauthorized.Wrapf("account %q missing pubKey (auth/register_account required)", env.Signer)
		}
	}
	if len(pub) != ed25519.PublicKeySize {
		return types.ErrUnauthorized.Wrapf("pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	msg := txAuthSignBytesV0(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, env.Sig) {
		return types.ErrUnauthorized.Wrap("invalid signature")
	}
	return consumeNonce(st, env)
}

func consumeNonce(st *state.State, env codec.TxEnvelope) error {
	n, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return types.ErrUnauthorized.Wrapf("invalid tx.nonce %q", env.Nonce)
	}
	if last, ok := st.NonceMax[env.Signer]; ok && n <= last {
		return types.ErrUnauthorized.Wrapf("replayed tx.nonce: got %d, last accepted %d", n, last)
	}
	st.NonceMax[env.Signer] = n
	return nil
}

// requireSigner is called by handlers whose message names the acting account.
func requireSigner(env codec.TxEnvelope, account string) error {
	if account == "" {
		return types.ErrInvalidRequest.Wrap("missing account")
	}
	if env.Signer == "" {
		return types.ErrUnauthorized.Wrapf("%s must be signed by %q", env.Type, account)
	}
	if env.Signer != account {
		return types.ErrUnauthorized.Wrapf("tx signer mismatch: signer=%q want=%q", env.Signer, account)
	}
	return nil
}
