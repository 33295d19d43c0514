package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/services"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Usuario{}, &models.Produto{}, &models.Cliente{},
		&models.Venda{}, &models.ItemVenda{}, &models.Pendencia{}, &models.MovimentacaoCaixa{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, err := crypto.FromEnv()
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	return c
}

func seedProdutoFixture(t *testing.T, db *gorm.DB, sku string, qtd int) models.Produto {
	t.Helper()
	p := models.Produto{Nome: "Produto " + sku, SKU: sku, Preco: 10.00, Quantidade: qtd, EstoqueMinimo: 10}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("produto: %v", err)
	}
	return p
}

func seedClienteFixture(t *testing.T, db *gorm.DB, cipher *crypto.Cipher, nome, email, cpf string) models.Cliente {
	t.Helper()
	enc, err := cipher.Encrypt(cpf)
	if err != nil {
		t.Fatalf("encrypt cpf: %v", err)
	}
	c := models.Cliente{Nome: nome, Email: email, CPF: enc, Status: models.ClienteAtivo}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("cliente: %v", err)
	}
	return c
}

func TestVendaCreateAndList(t *testing.T) {
	db := setupHandlerTestDB(t)
	cipher := testCipher(t)
	produto := seedProdutoFixture(t, db, "SKU1", 10)
	cliente := seedClienteFixture(t, db, cipher, "Maria Silva", "maria@test", "12345678901")
	h := NewVendaHandler(services.NewVendaService(db), cipher)

	body := `{"total":20,"pagamento":"Dinheiro","clienteId":` + strconv.Itoa(int(cliente.ID)) +
		`,"itens":[{"produtoId":` + strconv.Itoa(int(produto.ID)) + `,"quantidade":2,"preco":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/vendas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID      uint `json:"id"`
		Cliente struct {
			CPF string `json:"cpf"`
		} `json:"cliente"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("missing id: %s", w.Body.String())
	}
	if created.Cliente.CPF != "12345678901" {
		t.Fatalf("CPF deveria sair decifrado na resposta, obtido %q", created.Cliente.CPF)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/vendas?page=1&limit=10", nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	var list struct {
		Data        []models.Venda `json:"data"`
		TotalVendas int64          `json:"totalVendas"`
		CurrentPage int            `json:"currentPage"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Data) != 1 || list.TotalVendas != 1 || list.CurrentPage != 1 {
		t.Fatalf("unexpected list: %#v", list)
	}
}

func TestVendaCreateEstoqueInsuficiente(t *testing.T) {
	db := setupHandlerTestDB(t)
	cipher := testCipher(t)
	produto := seedProdutoFixture(t, db, "SKU1", 1)
	h := NewVendaHandler(services.NewVendaService(db), cipher)

	body := `{"total":50,"pagamento":"Pix","itens":[{"produtoId":` + strconv.Itoa(int(produto.ID)) + `,"quantidade":5,"preco":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/vendas", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "estoque_insuficiente") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestVendaCreateValidacao(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewVendaHandler(services.NewVendaService(db), testCipher(t))

	req := httptest.NewRequest(http.MethodPost, "/vendas", strings.NewReader(`{"total":0,"pagamento":"Cheque","itens":[]}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
