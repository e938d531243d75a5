package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "cenario.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/payback/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerScenario(t *testing.T) {
	buf, err := exampleWorkbook(t).WriteToBuffer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	(&Handler{MaxBytes: 10 << 20}).Scenario(rec, upload(t, "file", buf.Bytes()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got struct {
		Resumo struct {
			Payback int `json:"payback_ano"`
		} `json:"resumo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Resumo.Payback)
}

func TestHandlerScenarioOverflow(t *testing.T) {
	f := exampleWorkbook(t)
	require.NoError(t, f.SetCellValue(SheetPrices, "B1", 1e300))
	require.NoError(t, f.SetCellValue(SheetPrices, "B2", 1e10))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	(&Handler{MaxBytes: 10 << 20}).Scenario(rec, upload(t, "file", buf.Bytes()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "preco_por_caixa")
}

func TestHandlerScenarioErrors(t *testing.T) {
	buf, err := exampleWorkbook(t).WriteToBuffer()
	require.NoError(t, err)

	tests := []struct {
		name   string
		req    *http.Request
		limit  int64
		status int
	}{
		{"wrong field", upload(t, "planilha", buf.Bytes()), 10 << 20, http.StatusBadRequest},
		{"not xlsx", upload(t, "file", []byte("hello")), 10 << 20, http.StatusBadRequest},
		{"too large", upload(t, "file", buf.Bytes()), 512, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&Handler{MaxBytes: tt.limit}).Scenario(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
