package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// KeyLen — длина ключа для AES‑256 (в байтах).
const KeyLen = 32

// ErrDecryptFailure возвращается при повреждённом блобе или неверном ключе.
// Частичные данные никогда не возвращаются.
var ErrDecryptFailure = errors.New("decrypt failure")

// Cipher шифрует и расшифровывает блобы файлов одним долговременным
// симметричным ключом. Ключ внедряется при создании, а не читается из
// глобального состояния, чтобы ротация была заменяемой.
type Cipher struct {
	key []byte
}

// NewCipher создаёт Cipher. Ключ обязан быть длиной KeyLen.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeyLen {
		return nil, errors.New("invalid key length")
	}
	k := make([]byte, KeyLen)
	copy(k, key)
	return &Cipher{key: k}, nil
}

// Seal шифрует plain с помощью AES‑GCM. Nonce генерируется на каждый
// вызов и кладётся в начало блоба, поэтому повторные вызовы дают разные
// байты для одного и того же входа.
func (c *Cipher) Seal(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

// Open расшифровывает блоб, созданный Seal.
func (c *Cipher) Open(blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(blob) < gcm.NonceSize() {
		return nil, ErrDecryptFailure
	}
	nonce, ciphertext := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailure
	}
	return plain, nil
}
