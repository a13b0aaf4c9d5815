package assets

// ReportArtifacts returns the artifacts of every sub-report of r that was
// computed. Failed sub-reports produce nothing, leaving any previously
// published file in place.
func ReportArtifacts(r *Report) []Artifact {
	artifacts := []Artifact{
		CSVArtifact("valuations.csv", ValuationRows(r.Valuations)),
		JSONArtifact("positions.json", r.Positions),
	}
	if r.Summary.OK() {
		artifacts = append(artifacts, JSONArtifact("summary.json", r.Summary.Value))
	}
	if r.Holdings.OK() {
		artifacts = append(artifacts, JSONArtifact("holdings.json", r.Holdings.Value))
	}
	if r.Dividends.OK() {
		artifacts = append(artifacts, JSONArtifact("dividends.json", r.Dividends.Value))
	}
	if r.Activity.OK() {
		artifacts = append(artifacts, JSONArtifact("activity.json", r.Activity.Value))
	}
	if r.Prices.OK() {
		artifacts = append(artifacts, CSVArtifact("prices.csv", PriceRows(r.Prices.Value)))
	}
	return artifacts
}

// ValuationRows returns the account valuation time series as a table: one
// row per calendar date, one column per account.
func ValuationRows(series []ValuationSeries) [][]string {
	header := []string{"date"}
	for _, s := range series {
		header = append(header, s.Account)
	}
	rows := [][]string{header}
	if len(series) == 0 {
		return rows
	}
	for i, on := range series[0].Calendar {
		row := []string{on.String()}
		for _, s := range series {
			row = append(row, s.Values[i].Round().Amount().String())
		}
		rows = append(rows, row)
	}
	return rows
}

// PriceRows returns the price table as rows, unknown prices left blank.
func PriceRows(t PriceTable) [][]string {
	header := []string{"date"}
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	rows := [][]string{header}
	for i, on := range t.Calendar {
		row := []string{on.String()}
		for _, p := range t.Row(i) {
			cell := ""
			if p != nil {
				cell = p.String()
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
