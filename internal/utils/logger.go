package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var Print = log.Default()

// Init 按 level 构建带时间戳和彩色级别标签的 logger，并设为全局 Print
func Init(level string) (*log.Logger, error) {
	return InitTo(os.Stderr, level)
}

func InitTo(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
		Prefix:          "spades",
	})
	logger.SetStyles(styles())
	Print = logger
	return logger, nil
}

func badge(text, bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(text).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).Bold(true)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = badge("DEBUG", "#44444480", "#DDDDDDFF")
	s.Levels[log.InfoLevel] = badge("INFO", "#90EE9080", "#006400FF")
	s.Levels[log.WarnLevel] = badge("WARN", "#FFD70080", "#000000FF")
	s.Levels[log.ErrorLevel] = badge("ERROR", "#FF0000FF", "#00FFFF00")
	s.Levels[log.FatalLevel] = badge("FATAL", "#000000FF", "#00FFFF00")
	return s
}
