package crypto

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New(devKeyHex, devIVHex)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, plain := range []string{"12345678901", "a", "texto com acentuação çãé"} {
		enc, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plain, err)
		}
		if enc == plain {
			t.Fatalf("cifra não pode ser igual ao texto em claro")
		}
		dec, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plain, err)
		}
		if dec != plain {
			t.Fatalf("round-trip falhou: %q != %q", dec, plain)
		}
	}
}

func TestEncryptDeterministico(t *testing.T) {
	// IV fixo: o mesmo CPF cifra sempre igual, o que permite a unicidade
	// do campo no banco.
	c, err := New(devKeyHex, devIVHex)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a, _ := c.Encrypt("12345678901")
	b, _ := c.Encrypt("12345678901")
	if a != b {
		t.Fatalf("cifras diferentes para a mesma entrada: %q vs %q", a, b)
	}
}

func TestDecryptEntradaInvalida(t *testing.T) {
	c, err := New(devKeyHex, devIVHex)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, in := range []string{"não-hex", "abcd", ""} {
		if _, err := c.Decrypt(in); err == nil {
			t.Fatalf("entrada %q deveria falhar", in)
		}
	}
}

func TestNewChavesInvalidas(t *testing.T) {
	if _, err := New("zz", devIVHex); err == nil {
		t.Fatalf("chave não-hex deveria falhar")
	}
	if _, err := New("abcd", devIVHex); err == nil {
		t.Fatalf("chave curta deveria falhar")
	}
	if _, err := New(devKeyHex, "abcd"); err == nil {
		t.Fatalf("IV curto deveria falhar")
	}
}
