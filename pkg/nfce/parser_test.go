package nfce

import (
	"NotaScan-Backend/domain"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const procDocument = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc>
  <NFe>
    <infNFe>
      <ide>
        <nNF>123456</nNF>
        <dhEmi>2026-08-15T14:30:00-03:00</dhEmi>
      </ide>
      <emit>
        <CNPJ>11222333000144</CNPJ>
        <xNome>SUPERMERCADO EXEMPLO LTDA</xNome>
      </emit>
      <det nItem="1">
        <prod>
          <xProd>ARROZ BRANCO 5KG</xProd>
          <qCom>1.0000</qCom>
          <vUnCom>25.90</vUnCom>
          <vProd>25.90</vProd>
          <uCom>UN</uCom>
        </prod>
      </det>
      <det nItem="2">
        <prod>
          <xProd>FEIJAO CARIOCA 1KG</xProd>
          <qCom>2.0000</qCom>
          <vUnCom>8.50</vUnCom>
          <vProd>17.00</vProd>
          <uCom>UN</uCom>
        </prod>
      </det>
      <det nItem="3">
        <prod>
          <xProd>CARNE BOVINA</xProd>
          <qCom>0.7040</qCom>
          <vUnCom>50.00</vUnCom>
          <vProd>35.20</vProd>
          <uCom>KG</uCom>
        </prod>
      </det>
      <total>
        <ICMSTot>
          <vNF>78.10</vNF>
        </ICMSTot>
      </total>
    </infNFe>
  </NFe>
</nfeProc>`

func TestParseFullDocument(t *testing.T) {
	parsed, err := Parse([]byte(procDocument))
	require.NoError(t, err)

	assert.Equal(t, "SUPERMERCADO EXEMPLO LTDA", parsed.StoreName)
	assert.Equal(t, "11222333000144", parsed.StoreCnpj)
	assert.Equal(t, "123456", parsed.ReceiptNumber)
	assert.True(t, parsed.TotalAmount.Equal(decimal.RequireFromString("78.10")))

	expectedDate, _ := time.Parse(time.RFC3339, "2026-08-15T14:30:00-03:00")
	assert.True(t, parsed.PurchaseDate.Equal(expectedDate))

	require.Len(t, parsed.Items, 3)
	assert.Equal(t, "ARROZ BRANCO 5KG", parsed.Items[0].Name)
	assert.Equal(t, "FEIJAO CARIOCA 1KG", parsed.Items[1].Name)
	assert.Equal(t, "CARNE BOVINA", parsed.Items[2].Name)
	assert.True(t, parsed.Items[2].Quantity.Equal(decimal.RequireFromString("0.7040")))
	assert.True(t, parsed.Items[2].TotalPrice.Equal(decimal.RequireFromString("35.20")))
	assert.Equal(t, "KG", parsed.Items[2].Unit)
}

func TestParseAcceptsAllRootShapes(t *testing.T) {
	bare := `<infNFe>
	  <emit><CNPJ>11222333000144</CNPJ><xNome>LOJA</xNome></emit>
	  <det><prod><xProd>SABONETE</xProd><qCom>1</qCom><vUnCom>3.50</vUnCom><vProd>3.50</vProd></prod></det>
	  <total><ICMSTot><vNF>3.50</vNF></ICMSTot></total>
	</infNFe>`
	nfe := `<NFe>` + bare + `</NFe>`
	proc := `<nfeProc>` + nfe + `</nfeProc>`

	for _, doc := range []string{bare, nfe, proc} {
		parsed, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "LOJA", parsed.StoreName)
		require.Len(t, parsed.Items, 1)
	}
}

func TestParseSingleItemDocument(t *testing.T) {
	doc := `<NFe><infNFe>
	  <emit><xFant>PADARIA DO BAIRRO</xFant></emit>
	  <det><prod><xProd>PAO FRANCES</xProd><vUnCom>0.75</vUnCom><vProd>0.75</vProd></prod></det>
	  <total><ICMSTot><vNFCe>0.75</vNFCe></ICMSTot></total>
	</infNFe></NFe>`

	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)

	// xFant and vNFCe are the fallback tags, qCom and uCom take defaults.
	assert.Equal(t, "PADARIA DO BAIRRO", parsed.StoreName)
	assert.True(t, parsed.TotalAmount.Equal(decimal.RequireFromString("0.75")))
	require.Len(t, parsed.Items, 1)
	assert.True(t, parsed.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "UN", parsed.Items[0].Unit)
}

func TestParseDateOnlyEmission(t *testing.T) {
	doc := `<NFe><infNFe>
	  <ide><cNF>987</cNF><dEmi>2026-07-01</dEmi></ide>
	  <emit><xNome>LOJA</xNome></emit>
	  <det><prod><xProd>AGUA MINERAL</xProd><vUnCom>2.00</vUnCom><vProd>2.00</vProd></prod></det>
	  <total><ICMSTot><vNF>2.00</vNF></ICMSTot></total>
	</infNFe></NFe>`

	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "987", parsed.ReceiptNumber)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), parsed.PurchaseDate)
}

func TestParseRejectsMissingTotals(t *testing.T) {
	doc := `<NFe><infNFe>
	  <emit><xNome>LOJA</xNome></emit>
	  <det><prod><xProd>ITEM</xProd><vUnCom>1.00</vUnCom><vProd>1.00</vProd></prod></det>
	</infNFe></NFe>`

	_, err := Parse([]byte(doc))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsNonNumericTotal(t *testing.T) {
	doc := `<NFe><infNFe>
	  <emit><xNome>LOJA</xNome></emit>
	  <det><prod><xProd>ITEM</xProd><vUnCom>1.00</vUnCom><vProd>1.00</vProd></prod></det>
	  <total><ICMSTot><vNF>abc</vNF></ICMSTot></total>
	</infNFe></NFe>`

	_, err := Parse([]byte(doc))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsEmptyItemList(t *testing.T) {
	doc := `<NFe><infNFe>
	  <emit><xNome>LOJA</xNome></emit>
	  <total><ICMSTot><vNF>10.00</vNF></ICMSTot></total>
	</infNFe></NFe>`

	_, err := Parse([]byte(doc))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsItemWithoutName(t *testing.T) {
	doc := `<NFe><infNFe>
	  <emit><xNome>LOJA</xNome></emit>
	  <det><prod><vUnCom>1.00</vUnCom><vProd>1.00</vProd></prod></det>
	  <total><ICMSTot><vNF>1.00</vNF></ICMSTot></total>
	</infNFe></NFe>`

	_, err := Parse([]byte(doc))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsMissingIssuer(t *testing.T) {
	doc := `<NFe><infNFe>
	  <det><prod><xProd>ITEM</xProd><vUnCom>1.00</vUnCom><vProd>1.00</vProd></prod></det>
	  <total><ICMSTot><vNF>1.00</vNF></ICMSTot></total>
	</infNFe></NFe>`

	_, err := Parse([]byte(doc))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsInvalidXML(t *testing.T) {
	_, err := Parse([]byte("this is not xml"))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}
