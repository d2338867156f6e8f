package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Save decoded results to a log file.
 *
 * Description:	Rather than saving raw bits, write one CSV row per
 *		decoded result for easy reading and later processing.
 *
 *		There are two alternatives here.
 *
 *		logDailyNames false	logFilename is the full file path.
 *
 *		logDailyNames true	logFilename is a directory and
 *					daily names are created in it.
 *
 *		A header row is written when a file is first created.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	dailyLogPattern  = "%Y-%m-%d.csv"
	logTimestampSpec = "%Y-%m-%dT%H:%M:%SZ"
)

var chunkLogHeader = []string{"chunk", "utime", "isotime", "type", "length", "text", "payload"}

type ChunkLog struct {
	dailyNames bool
	path       string // directory when dailyNames, else the file
	file       *os.File
	writer     *csv.Writer
	openName   string
}

/*------------------------------------------------------------------
 *
 * Name:	NewChunkLog
 *
 * Inputs:	dailyNames	- True if daily names should be generated.
 *				  In this case path is a directory.
 *				  When false, path would be the file name.
 *
 *		path		- Log file name or just directory.
 *				  Use "." for current directory.
 *				  Empty string disables feature.
 *
 * Returns:	A ChunkLog.  Files are opened on first write.
 *
 *------------------------------------------------------------------*/

func NewChunkLog(dailyNames bool, path string) *ChunkLog {
	var l = &ChunkLog{dailyNames: dailyNames}

	if len(path) == 0 {
		return l
	}

	if !dailyNames {
		logger.Info("log file", "path", path)
		l.path = path
		return l
	}

	var stat, statErr = os.Stat(path)

	switch {
	case statErr == nil && stat.IsDir():
		l.path = path
	case statErr == nil:
		logger.Error("log file location is not a directory, using current working directory instead", "path", path)
		l.path = "."
	default:
		// Parent must exist.  We don't create multiple levels like "mkdir -p".
		if err := os.Mkdir(path, 0755); err != nil {
			logger.Error("failed to create log file location, using current working directory instead", "path", path, "err", err)
			l.path = "."
		} else {
			logger.Info("log file location has been created", "path", path)
			l.path = path
		}
	}

	return l
} /* end NewChunkLog */

// fileName is the file to write at time now.
func (l *ChunkLog) fileName(now time.Time) string {
	if !l.dailyNames {
		return l.path
	}

	var name, err = strftime.Format(dailyLogPattern, now)
	if err != nil {
		// Pattern is a constant, cannot fail.
		panic(err)
	}

	return filepath.Join(l.path, name)
}

func (l *ChunkLog) open(fname string) bool {
	var _, statErr = os.Stat(fname)
	var alreadyThere = statErr == nil

	logger.Info("opening log file", "path", fname)

	var f, err = os.OpenFile(fname, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		logger.Error("can't open log file for write", "path", fname, "err", err)
		if !l.dailyNames {
			l.path = ""
		}
		return false
	}

	l.file = f
	l.writer = csv.NewWriter(f)
	l.openName = fname

	if !alreadyThere {
		_ = l.writer.Write(chunkLogHeader)
	}

	return true
}

/*------------------------------------------------------------------
 *
 * Name:	Write
 *
 * Purpose:	Save results to the log file.
 *
 * Description:	Daily files roll over on the UTC date of the result.
 *
 *------------------------------------------------------------------*/

func (l *ChunkLog) Write(results []DecodedResult) {
	if l == nil || len(l.path) == 0 || len(results) == 0 {
		return
	}

	for _, r := range results {
		var when = r.Time.UTC()

		var fname = l.fileName(when)
		if l.file != nil && fname != l.openName {
			l.Close()
		}

		if l.file == nil && !l.open(fname) {
			return
		}

		var isotime, _ = strftime.Format(logTimestampSpec, when)

		var row = []string{
			strconv.Itoa(r.Chunk),
			strconv.FormatInt(when.Unix(), 10),
			isotime,
			r.Type,
			strconv.Itoa(len(r.Payload)),
			r.Text,
			hex.EncodeToString(r.Payload),
		}

		if err := l.writer.Write(row); err != nil {
			logger.Error("log write failed", "path", l.openName, "err", err)
		}
	}

	l.writer.Flush()
} /* end Write */

// Close is safe on a nil or never opened log.
func (l *ChunkLog) Close() {
	if l == nil || l.file == nil {
		return
	}

	l.writer.Flush()
	_ = l.file.Close()
	l.file = nil
	l.writer = nil
	l.openName = ""
}
