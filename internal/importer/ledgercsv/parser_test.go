package ledgercsv_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ozank/kapici/internal/importer/ledgercsv"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Tablo(t *testing.T) {
	csv := `Apartman sipariş defteri - 2024
Blok;Kadıköy Apt.

Tarih;Daire;Açıklama;Tutar;Ödendi
15.03.2024;A1;2 ekmek 1 süt;12,50;Hayır
16.03.2024;B3;Çöp ücreti;5,00;Evet
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, date(2024, 3, 15), params[0].CreatedAt)
	assert.Equal(t, "A1", params[0].ApartmentNumber)
	assert.Equal(t, "2 ekmek 1 süt", params[0].OrderText)
	assert.Equal(t, "12.50", params[0].Price)
	assert.False(t, params[0].IsPaid)

	assert.Equal(t, date(2024, 3, 16), params[1].CreatedAt)
	assert.Equal(t, "B3", params[1].ApartmentNumber)
	assert.Equal(t, "5.00", params[1].Price)
	assert.True(t, params[1].IsPaid)
}

func TestParser_Defter(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Borç;Ödenen
15.03.2024;A1;Market alışverişi;25,00;
20.03.2024;A1;Su;;8,50
 ; ; ; ;Sayfa 1/2
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "25.00", params[0].Price)
	assert.False(t, params[0].IsPaid)

	assert.Equal(t, "8.50", params[1].Price)
	assert.True(t, params[1].IsPaid)
}

func TestParser_Windows1254Encoding(t *testing.T) {
	utf8CSV := "Tarih;Daire;Açıklama;Tutar;Ödendi\n15.03.2024;A1;Çöp ücreti;10,00;Hayır\n"

	encoder := charmap.Windows1254.NewEncoder()
	turkishBytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := ledgercsv.NewParser()
	params, err := p.Parse(bytes.NewReader(turkishBytes))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Çöp ücreti", params[0].OrderText)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Tutar;Daire;Tarih;Ödendi;Ignored
10,00;C7;15.03.2024;Evet;XXX
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "C7", params[0].ApartmentNumber)
	assert.Equal(t, "10.00", params[0].Price)
	assert.True(t, params[0].IsPaid)
}

func TestParser_MissingDescriptionGetsFallback(t *testing.T) {
	csv := `Tarih;Daire;Tutar;Ödendi
15.03.2024;A1;10,00;Hayır
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Defter kaydı", params[0].OrderText)
}

func TestParser_MissingApartment(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi
15.03.2024;;Ekmek;10,00;Hayır
`

	p := ledgercsv.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apartment")
}

func TestParser_EmptyFile(t *testing.T) {
	p := ledgercsv.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching ledger format")
}

func TestParser_HeaderOnly(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParser_SkipsRowsWithoutAmount(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi
15.03.2024;A1;Ekmek;;
16.03.2024;A1;Süt;0,00;Hayır
17.03.2024;A1;Su;8,50;Hayır
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "8.50", params[0].Price)
}

func TestParser_ThousandSeparatorsAndCurrencySuffix(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi
15.03.2024;A1;Aylık hesap;1.234,56 TL;Hayır
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "1234.56", params[0].Price)
}

func TestParser_NegativeAmountStoredUnsigned(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi
15.03.2024;A1;Düzeltme;-12,50;Hayır
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "12.50", params[0].Price)
}

func TestParser_AlternateDateFormats(t *testing.T) {
	csv := `Tarih;Daire;Açıklama;Tutar;Ödendi
15/03/2024;A1;Ekmek;5,00;Hayır
2024-03-16;A2;Süt;6,00;Evet
`

	p := ledgercsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, date(2024, 3, 15), params[0].CreatedAt)
	assert.Equal(t, date(2024, 3, 16), params[1].CreatedAt)
}
