package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// Cipher criptografa campos sensíveis (CPF) com AES-256-CBC e saída em hex.
// O núcleo trata isso como uma transformação reversível opaca aplicada na
// borda de leitura/escrita.
type Cipher struct {
	key []byte // 32 bytes
	iv  []byte // 16 bytes
}

// Chaves de desenvolvimento usadas quando ENCRYPTION_KEY/ENCRYPTION_IV não
// estão definidas. Nunca usar em produção.
const (
	devKeyHex = "6368616e676520746869732064657620656e6372797074696f6e206b65792121"
	devIVHex  = "6465762d69762d31362d627974657321"
)

func New(keyHex, ivHex string) (*Cipher, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY inválida: %w", err)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_IV inválido: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("ENCRYPTION_KEY deve ter 32 bytes (64 hex)")
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.New("ENCRYPTION_IV deve ter 16 bytes (32 hex)")
	}
	return &Cipher{key: key, iv: iv}, nil
}

// FromEnv builds a Cipher from ENCRYPTION_KEY / ENCRYPTION_IV (hex),
// falling back to dev values when unset.
func FromEnv() (*Cipher, error) {
	keyHex := os.Getenv("ENCRYPTION_KEY")
	if keyHex == "" {
		keyHex = devKeyHex
	}
	ivHex := os.Getenv("ENCRYPTION_IV")
	if ivHex == "" {
		ivHex = devIVHex
	}
	return New(keyHex, ivHex)
}

// Encrypt cifra texto em claro e devolve hex.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverte Encrypt. Entrada malformada devolve erro, nunca pânico.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	raw, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("valor cifrado não é hex: %w", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", errors.New("valor cifrado com tamanho inválido")
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(out, raw)
	unpadded, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("padding inválido")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.New("padding inválido")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errors.New("padding inválido")
		}
	}
	return b[:len(b)-n], nil
}
