package export

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"ChartFeed/internal/model"
)

// SampleRow is one raw sample as stored in parquet.
type SampleRow struct {
	Pair        string  `parquet:"name=pair, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Granularity string  `parquet:"name=granularity, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Timestamp   int64   `parquet:"name=timestamp, type=INT64"`
	Date        string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Open        float64 `parquet:"name=open, type=DOUBLE, encoding=PLAIN"`
	High        float64 `parquet:"name=high, type=DOUBLE, encoding=PLAIN"`
	Low         float64 `parquet:"name=low, type=DOUBLE, encoding=PLAIN"`
	Close       float64 `parquet:"name=close, type=DOUBLE, encoding=PLAIN"`
	VolumeFrom  float64 `parquet:"name=volume_from, type=DOUBLE, encoding=PLAIN"`
	VolumeTo    float64 `parquet:"name=volume_to, type=DOUBLE, encoding=PLAIN"`
}

// FileName builds the export file path for a pair and period, e.g. dir/BTC-USD_day.parquet.
func FileName(dir string, pair model.Pair, period model.PeriodType) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s_%s.parquet",
		strings.ToUpper(pair.From.Code), strings.ToUpper(pair.To.Code), period))
}

// WriteSeries writes raw samples to a GZIP-compressed parquet file.
func WriteSeries(path string, pair model.Pair, g model.Granularity, series model.Series) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(SampleRow), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_GZIP
	pw.PageSize = 8 * 1024

	for _, s := range series {
		row := SampleRow{
			Pair:        pair.String(),
			Granularity: string(g),
			Timestamp:   s.Time.Unix(),
			Date:        s.Time.UTC().Format("2006-01-02"),
			Open:        s.Open,
			High:        s.High,
			Low:         s.Low,
			Close:       s.Close,
			VolumeFrom:  s.VolumeFrom,
			VolumeTo:    s.VolumeTo,
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("failed to write parquet data: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	log.Printf("[INFO] wrote %d %s samples to %s", len(series), pair, path)
	return nil
}

// ReadSeries loads samples written by WriteSeries.
func ReadSeries(path string) (model.Series, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(SampleRow), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]SampleRow, int(pr.GetNumRows()))
	if len(rows) > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("failed to read parquet data: %w", err)
		}
	}

	series := make(model.Series, 0, len(rows))
	for _, r := range rows {
		series = append(series, model.Sample{
			Time:       time.Unix(r.Timestamp, 0).UTC(),
			Open:       r.Open,
			High:       r.High,
			Low:        r.Low,
			Close:      r.Close,
			VolumeFrom: r.VolumeFrom,
			VolumeTo:   r.VolumeTo,
		})
	}
	return series, nil
}
