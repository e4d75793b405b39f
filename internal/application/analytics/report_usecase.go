// Package analytics contiene los casos de uso de reportes resumidos y el dashboard.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/report"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReportUseCase agrupa comprobantes por período. Solo lectura.
type ReportUseCase struct {
	voucherRepo repository.VoucherRepository
	loc         *time.Location
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. loc es la zona de "hoy" para las ventanas.
func NewReportUseCase(voucherRepo repository.VoucherRepository, loc *time.Location) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{voucherRepo: voucherRepo, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Summary devuelve los buckets del período, el total general y la distribución por tipo.
// acceptLanguage (cabecera Accept-Language) elige el idioma de los nombres de la distribución.
func (uc *ReportUseCase) Summary(ctx context.Context, companyID, rawFrame, acceptLanguage string) (*dto.ReportSummaryResponse, error) {
	if rawFrame == "" {
		rawFrame = string(report.Monthly)
	}
	frame, err := report.ParseTimeFrame(rawFrame)
	if err != nil {
		return nil, domain.Validation(err.Error(), domain.FieldError{Field: "frame", Message: "debe ser uno de: daily weekly monthly yearly"})
	}
	from := calendarDate(frame.WindowStart(uc.now().In(uc.loc)))
	vouchers, err := uc.voucherRepo.List(ctx, repository.VoucherFilter{
		CompanyID: companyID,
		From:      &from,
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	r := report.Aggregate(vouchers, frame)

	out := &dto.ReportSummaryResponse{
		Frame:        string(frame),
		From:         from.Format("2006-01-02"),
		Buckets:      make([]dto.BucketDTO, 0, len(r.Buckets)),
		Totals:       toTotalsDTO(r.Overall),
		Distribution: distribution(r.Overall, seriesNames(acceptLanguage)),
	}
	for _, b := range r.Buckets {
		out.Buckets = append(out.Buckets, dto.BucketDTO{Label: b.Label, TotalsDTO: toTotalsDTO(b.Totals)})
	}
	return out, nil
}

// Idiomas de la serie de distribución; el primero es el de respaldo.
var (
	seriesLanguages = []language.Tag{language.English, language.Spanish}
	seriesMatcher   = language.NewMatcher(seriesLanguages)
	seriesWords     = map[language.Tag]map[entity.VoucherType]string{
		language.English: {
			entity.VoucherSales:    "sales",
			entity.VoucherPurchase: "purchases",
			entity.VoucherReceipt:  "receipts",
			entity.VoucherPayment:  "payments",
		},
		language.Spanish: {
			entity.VoucherSales:    "ventas",
			entity.VoucherPurchase: "compras",
			entity.VoucherReceipt:  "recibos",
			entity.VoucherPayment:  "pagos",
		},
	}
)

// seriesNames resuelve Accept-Language contra los idiomas soportados y capitaliza los
// nombres con las reglas de ese idioma. Una cabecera vacía o ilegible cae en inglés.
func seriesNames(acceptLanguage string) map[entity.VoucherType]string {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, idx, _ := seriesMatcher.Match(tags...)
	lang := seriesLanguages[idx]
	title := cases.Title(lang)
	out := make(map[entity.VoucherType]string, len(entity.VoucherTypes))
	for typ, word := range seriesWords[lang] {
		out[typ] = title.String(word)
	}
	return out
}

func distribution(t report.Totals, names map[entity.VoucherType]string) []dto.SeriesPointDTO {
	out := make([]dto.SeriesPointDTO, 0, len(entity.VoucherTypes))
	for _, typ := range entity.VoucherTypes {
		out = append(out, dto.SeriesPointDTO{Name: names[typ], Value: t.Of(typ)})
	}
	return out
}

func toTotalsDTO(t report.Totals) dto.TotalsDTO {
	return dto.TotalsDTO{Sales: t.Sales, Purchases: t.Purchases, Receipts: t.Receipts, Payments: t.Payments}
}

// calendarDate normaliza a medianoche UTC, que es como se guardan las fechas de comprobante.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
