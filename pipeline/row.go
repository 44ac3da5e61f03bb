package pipeline

import "fmt"

// storageLinkHost is the browsable host for archived objects.
const storageLinkHost = "storage.cloud.google.com"

// BuildRow assembles the summary row written to the tabular store. The
// hyperlink cells are spreadsheet formulas, which is why the append call
// must use user-entered input interpretation. The trailing map cell is
// included only when the fetch resolved a geolocation.
func BuildRow(folder string, file *SourceFile, rcpt *ArchiveReceipt, labels, description string) []any {
	row := []any{
		folder,
		fmt.Sprintf("=HYPERLINK(%q, %q)",
			fmt.Sprintf("%s/%s/%s", storageLinkHost, rcpt.Bucket, rcpt.Name), file.Name),
		file.MIMEType,
		file.ModifiedTime,
		Kize(len(file.Data)),
		labels,
		description,
	}
	if file.Geo.Present {
		row = append(row, fmt.Sprintf("=HYPERLINK(%q, %q)", file.Geo.MapURL, "Photo location"))
	}
	return row
}
