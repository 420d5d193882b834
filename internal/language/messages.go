package language

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English text; the Russian catalog is registered at init.
const (
	MsgConverting     = "Converting %s to %s"
	MsgRenditionDone  = "%s done in %s"
	MsgRenditionFail  = "%s failed: %s"
	MsgRenditionSkip  = "%s skipped: batch aborted"
	MsgTotal          = "Total converted: %d of %d file(s) in %s"
	MsgCancelled      = "Cancelled by user"
	MsgNoFiles        = "No video files found in %s"
	MsgNoSearchResult = "No results found for %q"
	MsgSettingsSaved  = "Settings saved"
	MsgVideoClamped   = "Video bitrate %d Kbps adjusted to %d Kbps (step 100, min 900, max 10000)"
	MsgOffered        = "Available renditions"
	MsgSource         = "Source"
	MsgRendition      = "Rendition"
	MsgStatus         = "Status"
	MsgOutput         = "Output"
	MsgSize           = "Size"
	MsgTime           = "Time"
	MsgStatusOK       = "ok"
	MsgStatusFailed   = "failed"
	MsgStatusSkipped  = "skipped"
	MsgUnitMB         = "MB"
	MsgUnitGB         = "GB"
)

var russian = map[string]string{
	MsgConverting:     "Конвертация %s в %s",
	MsgRenditionDone:  "%s готово за %s",
	MsgRenditionFail:  "%s: ошибка: %s",
	MsgRenditionSkip:  "%s пропущено: пакет прерван",
	MsgTotal:          "Всего сконвертировано: %d из %d файл(ов) за %s",
	MsgCancelled:      "Отменено пользователем",
	MsgNoFiles:        "В %s не найдено видеофайлов",
	MsgNoSearchResult: "По запросу %q ничего не найдено",
	MsgSettingsSaved:  "Настройки сохранены",
	MsgVideoClamped:   "Битрейт видео %d Kbps изменён на %d Kbps (шаг 100, мин 900, макс 10000)",
	MsgOffered:        "Доступные варианты",
	MsgSource:         "Источник",
	MsgRendition:      "Качество",
	MsgStatus:         "Статус",
	MsgOutput:         "Файл",
	MsgSize:           "Размер",
	MsgTime:           "Время",
	MsgStatusOK:       "готово",
	MsgStatusFailed:   "ошибка",
	MsgStatusSkipped:  "пропущено",
	MsgUnitMB:         "Мб",
	MsgUnitGB:         "Гб",
}

func init() {
	for key, text := range russian {
		if err := message.SetString(language.Russian, key, text); err != nil {
			panic(err)
		}
	}
}

// Printer returns a message printer for the given UI language code.
func Printer(code string) *message.Printer {
	return message.NewPrinter(tagFor(code))
}
