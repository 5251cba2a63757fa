package nfce

import (
	"NotaScan-Backend/domain"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	ParsedReceipt struct {
		StoreName     string
		StoreCnpj     string
		TotalAmount   decimal.Decimal
		PurchaseDate  time.Time
		ReceiptNumber string
		Items         []ParsedItem
	}

	ParsedItem struct {
		Name       string
		Quantity   decimal.Decimal
		UnitPrice  decimal.Decimal
		TotalPrice decimal.Decimal
		Unit       string
	}
)

// NFC-e documents arrive in three shapes depending on the issuing portal:
// <nfeProc><NFe><infNFe>, <NFe><infNFe>, or a bare <infNFe> root. The
// envelope declares all three paths so every fallback is explicit.
type (
	xmlEnvelope struct {
		ProcInf *xmlInfNFe `xml:"NFe>infNFe"`
		Inf     *xmlInfNFe `xml:"infNFe"`
		xmlInfNFe
	}

	xmlInfNFe struct {
		Ide   *xmlIde   `xml:"ide"`
		Emit  *xmlEmit  `xml:"emit"`
		Det   []xmlDet  `xml:"det"`
		Total *xmlTotal `xml:"total"`
	}

	xmlIde struct {
		NNF   string `xml:"nNF"`
		CNF   string `xml:"cNF"`
		DhEmi string `xml:"dhEmi"`
		DEmi  string `xml:"dEmi"`
	}

	xmlEmit struct {
		CNPJ  string `xml:"CNPJ"`
		XNome string `xml:"xNome"`
		XFant string `xml:"xFant"`
	}

	xmlDet struct {
		Prod xmlProd `xml:"prod"`
	}

	xmlProd struct {
		XProd  string `xml:"xProd"`
		QCom   string `xml:"qCom"`
		VUnCom string `xml:"vUnCom"`
		VProd  string `xml:"vProd"`
		UCom   string `xml:"uCom"`
	}

	xmlTotal struct {
		ICMSTot *xmlICMSTot `xml:"ICMSTot"`
	}

	xmlICMSTot struct {
		VNF   string `xml:"vNF"`
		VNFCe string `xml:"vNFCe"`
	}
)

// Parse decodes a raw NFC-e XML document into a ParsedReceipt. A missing
// issuer block, totals block or item list is a MalformedDocument error, and
// numeric fields are never silently coerced to zero.
func Parse(raw []byte) (*ParsedReceipt, error) {
	var env xmlEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	inf := env.ProcInf
	if inf == nil {
		inf = env.Inf
	}
	if inf == nil && (env.Ide != nil || env.Emit != nil || len(env.Det) > 0 || env.Total != nil) {
		inf = &env.xmlInfNFe
	}
	if inf == nil {
		return nil, fmt.Errorf("%w: infNFe block not found", domain.ErrMalformedDocument)
	}

	if inf.Emit == nil {
		return nil, fmt.Errorf("%w: issuer block (emit) is missing", domain.ErrMalformedDocument)
	}
	storeName := inf.Emit.XNome
	if storeName == "" {
		storeName = inf.Emit.XFant
	}

	if inf.Total == nil || inf.Total.ICMSTot == nil {
		return nil, fmt.Errorf("%w: totals block (ICMSTot) is missing", domain.ErrMalformedDocument)
	}
	totalStr := inf.Total.ICMSTot.VNF
	if totalStr == "" {
		totalStr = inf.Total.ICMSTot.VNFCe
	}
	if totalStr == "" {
		return nil, fmt.Errorf("%w: document total is missing", domain.ErrMalformedDocument)
	}
	totalAmount, err := parseDecimal("total", totalStr)
	if err != nil {
		return nil, err
	}

	purchaseDate := time.Now()
	receiptNumber := ""
	if inf.Ide != nil {
		purchaseDate, err = parseEmissionDate(inf.Ide)
		if err != nil {
			return nil, err
		}
		receiptNumber = inf.Ide.NNF
		if receiptNumber == "" {
			receiptNumber = inf.Ide.CNF
		}
	}

	if len(inf.Det) == 0 {
		return nil, fmt.Errorf("%w: item list (det) is missing", domain.ErrMalformedDocument)
	}

	items := make([]ParsedItem, 0, len(inf.Det))
	for i, det := range inf.Det {
		item, err := parseItem(i, det.Prod)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &ParsedReceipt{
		StoreName:     storeName,
		StoreCnpj:     inf.Emit.CNPJ,
		TotalAmount:   totalAmount,
		PurchaseDate:  purchaseDate,
		ReceiptNumber: receiptNumber,
		Items:         items,
	}, nil
}

func parseItem(index int, prod xmlProd) (ParsedItem, error) {
	if prod.XProd == "" {
		return ParsedItem{}, fmt.Errorf("%w: item %d has no product name", domain.ErrMalformedDocument, index)
	}

	quantityStr := prod.QCom
	if quantityStr == "" {
		quantityStr = "1"
	}
	quantity, err := parseDecimal(fmt.Sprintf("item %d quantity", index), quantityStr)
	if err != nil {
		return ParsedItem{}, err
	}

	unitPrice, err := parseDecimal(fmt.Sprintf("item %d unit price", index), prod.VUnCom)
	if err != nil {
		return ParsedItem{}, err
	}

	totalPrice, err := parseDecimal(fmt.Sprintf("item %d total price", index), prod.VProd)
	if err != nil {
		return ParsedItem{}, err
	}

	unit := prod.UCom
	if unit == "" {
		unit = "UN"
	}

	return ParsedItem{
		Name:       prod.XProd,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
		Unit:       unit,
	}, nil
}

// dhEmi carries a full RFC3339 timestamp with offset, older documents use
// the date-only dEmi. When neither is present the ingestion time is used.
func parseEmissionDate(ide *xmlIde) (time.Time, error) {
	if ide.DhEmi != "" {
		t, err := time.Parse(time.RFC3339, ide.DhEmi)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: emission date %q is invalid", domain.ErrMalformedDocument, ide.DhEmi)
		}
		return t, nil
	}
	if ide.DEmi != "" {
		t, err := time.Parse("2006-01-02", ide.DEmi)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: emission date %q is invalid", domain.ErrMalformedDocument, ide.DEmi)
		}
		return t, nil
	}
	return time.Now(), nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a number: %q", domain.ErrMalformedDocument, field, value)
	}
	return d, nil
}
