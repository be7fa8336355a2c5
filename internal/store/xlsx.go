package store

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

const leadsSheet = "Leads"

var xlsxHeader = []string{
	"place_id", "business_name", "address", "phone_google", "phone_website",
	"email", "website", "rating", "user_ratings_total", "https",
	"has_viewport", "has_title", "has_cta", "html_length", "analysis_status",
	"lead_score",
}

// WriteXLSX exports rows to a single-sheet workbook at path.
func WriteXLSX(path string, rows []model.LeadRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(leadsSheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range []string{r.PlaceID, r.BusinessName, r.Address, r.PhoneGoogle, r.PhoneWebsite, r.Email, r.Website} {
			row.AddCell().SetString(v)
		}
		rating := row.AddCell()
		if r.Rating != nil {
			rating.SetFloat(*r.Rating)
		}
		reviews := row.AddCell()
		if r.ReviewCount != nil {
			reviews.SetInt(*r.ReviewCount)
		}
		for _, b := range []bool{r.HTTPS, r.HasViewport, r.HasTitle, r.HasCallToAction} {
			row.AddCell().SetString(strconv.FormatBool(b))
		}
		row.AddCell().SetInt(r.HTMLLength)
		row.AddCell().SetString(r.AnalysisStatus)
		row.AddCell().SetInt(r.LeadScore)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save file")
	}
	return nil
}
