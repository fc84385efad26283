package chart

import "ChartFeed/internal/model"

// Formatter reduces a raw series into chart columns.
type Formatter interface {
	Format(series model.Series, aggregate int) model.ChartData
}

// CryptocompareFormatter groups consecutive samples, aggregate per column.
// The column value is the close of the group's last sample; a trailing
// partial group becomes a final, smaller column.
type CryptocompareFormatter struct{}

func (CryptocompareFormatter) Format(series model.Series, aggregate int) model.ChartData {
	if aggregate < 1 {
		aggregate = 1
	}
	data := make(model.ChartData, 0, (len(series)+aggregate-1)/aggregate)
	for start := 0; start < len(series); start += aggregate {
		end := start + aggregate
		if end > len(series) {
			end = len(series)
		}
		data = append(data, reduce(series[start:end]))
	}
	return data
}

func reduce(group model.Series) model.ChartColumn {
	first, last := group[0], group[len(group)-1]
	col := model.ChartColumn{
		Time:    last.Time,
		Value:   last.Close,
		Open:    first.Open,
		High:    first.High,
		Low:     first.Low,
		Count:   len(group),
		Samples: append([]model.Sample(nil), group...),
	}
	for _, s := range group {
		if s.High > col.High {
			col.High = s.High
		}
		if s.Low < col.Low {
			col.Low = s.Low
		}
		col.Volume += s.VolumeTo
	}
	return col
}
