package pan

import (
	"strings"

	domain "udyam-verification/internal/domain/pan"
	"udyam-verification/internal/validation"
)

// Directory is the static reference list the verifier checks against.
type Directory struct {
	records []domain.Record
	byPAN   map[string]domain.Record
}

// The last entry has a 9-character PAN and can never pass format validation.
var mockRecords = []domain.Record{
	{PAN: "ABCDE1234F", Name: "JOHN DOE", DateOfBirth: "1990-01-15", Status: domain.RecordActive},
	{PAN: "FGHIJ5678K", Name: "JANE SMITH", DateOfBirth: "1985-05-20", Status: domain.RecordActive},
	{PAN: "KLMNO9012P", Name: "RAJESH KUMAR", DateOfBirth: "1988-12-10", Status: domain.RecordActive},
	{PAN: "QRSTU3456V", Name: "PRIYA SHARMA", DateOfBirth: "1992-08-25", Status: domain.RecordActive},
	{PAN: "WXYZ7890A", Name: "AMIT PATEL", DateOfBirth: "1987-03-18", Status: domain.RecordActive},
}

func NewDirectory(records []domain.Record) *Directory {
	d := &Directory{
		records: append([]domain.Record(nil), records...),
		byPAN:   make(map[string]domain.Record, len(records)),
	}
	for _, r := range records {
		d.byPAN[strings.ToUpper(r.PAN)] = r
	}
	return d
}

func DefaultDirectory() *Directory { return NewDirectory(mockRecords) }

func (d *Directory) Lookup(pan string) (domain.Record, bool) {
	r, ok := d.byPAN[strings.ToUpper(pan)]
	return r, ok
}

// All returns the records in their original order.
func (d *Directory) All() []domain.Record {
	return append([]domain.Record(nil), d.records...)
}

// Check runs the directory rules for one lookup.
func (d *Directory) Check(pan, name, dob string) (domain.Record, error) {
	r, ok := d.Lookup(pan)
	if !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	if r.Status != domain.RecordActive {
		return r, domain.ErrInactive
	}
	if !NamesMatch(name, r.Name) {
		return r, domain.ErrNameMismatch
	}
	if dob != r.DateOfBirth {
		return r, domain.ErrDOBMismatch
	}
	return r, nil
}

// NamesMatch compares normalized names. When they differ, enough input words
// must overlap a directory word by substring in either direction: at least
// 0.7 of the shorter word count.
func NamesMatch(input, record string) bool {
	in := validation.NormalizeName(input)
	rec := validation.NormalizeName(record)
	if in == rec {
		return true
	}
	inWords := strings.Split(in, " ")
	recWords := strings.Split(rec, " ")

	matched := 0
	for _, w := range inWords {
		for _, rw := range recWords {
			if strings.Contains(rw, w) || strings.Contains(w, rw) {
				matched++
				break
			}
		}
	}
	shorter := len(inWords)
	if len(recWords) < shorter {
		shorter = len(recWords)
	}
	return float64(matched) >= float64(shorter)*0.7
}
