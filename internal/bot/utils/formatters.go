package utils

import (
	"fmt"
	"strings"
	"time"

	"marketai-bot/internal/consumers"
	"marketai-bot/internal/models"
)

const displayDateLayout = "02.01.2006"

func FormatWelcomeMessage(firstName string) string {
	name := firstName
	if name == "" {
		name = "друг"
	}

	return fmt.Sprintf(`👋 Привет, *%s*\!

Я помогаю смотреть аналитику продаж на маркетплейсах\.

*Что я умею:*
• Фильтровать данные по маркетплейсу, складу, категории и периоду
• Сохранять наборы фильтров в пресеты
• Показывать финансовые метрики рекламной кампании

*Команды:*
/filters \- фильтры
/presets \- пресеты
/metrics \- финансовые метрики
/help \- справка`, EscapeMarkdown(name))
}

func FormatHelpMessage() string {
	return `*📖 Справка*

*Основные команды:*

/start \- начать работу с ботом
/filters \- настроить фильтры
/presets \- применить или сохранить пресет
/metrics \- финансовые метрики кампании
/help \- справка

*Как работать с ботом:*

1️⃣ Выберите маркетплейс, склад, категорию и период в /filters
2️⃣ Выберите кампанию и даты метрик, они сохраняются между сессиями
3️⃣ Сохраните удачный набор фильтров как пресет в /presets

*Формат дат:* ` + "`01.01.2025 - 31.01.2025`" + ` или ` + "`2025-01-01 2025-01-31`"
}

func FormatDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "не задана"
	}
	return FormatDate(*t)
}

// FormatSelection renders the active filters. campaignName may be empty when
// the campaign list is unavailable.
func FormatSelection(sel models.FilterSelection, campaignName string) string {
	var sb strings.Builder

	sb.WriteString("*🎛 Текущие фильтры:*\n\n")
	sb.WriteString(fmt.Sprintf("🛒 *Маркетплейс:* %s\n", EscapeMarkdown(models.MarketplaceDisplayName(sel.Marketplace))))
	sb.WriteString(fmt.Sprintf("🏬 *Склад:* %s\n", EscapeMarkdown(models.WarehouseDisplayName(sel.Warehouse))))
	sb.WriteString(fmt.Sprintf("🏷 *Категория:* %s\n", EscapeMarkdown(models.CategoryDisplayName(sel.Category))))
	sb.WriteString(fmt.Sprintf("📅 *Период:* %s\n", EscapeMarkdown(FormatDate(sel.StartDate)+" - "+FormatDate(sel.EndDate))))

	sb.WriteString("\n*📣 Метрики кампании:*\n")
	switch {
	case sel.CampaignID == nil:
		sb.WriteString("Кампания: не выбрана\n")
	case campaignName != "":
		sb.WriteString(fmt.Sprintf("Кампания: %s\n", EscapeMarkdown(campaignName)))
	default:
		sb.WriteString(fmt.Sprintf("Кампания: \\#%d\n", *sel.CampaignID))
	}
	sb.WriteString(fmt.Sprintf("С: %s\n", EscapeMarkdown(formatOptionalDate(sel.DateFrom))))
	sb.WriteString(fmt.Sprintf("По: %s\n", EscapeMarkdown(formatOptionalDate(sel.DateTo))))

	return sb.String()
}

func FormatPresets(defaults, custom []models.PresetConfig) string {
	var sb strings.Builder

	sb.WriteString("*💾 Пресеты*\n\n*Стандартные*\n")
	for _, p := range defaults {
		sb.WriteString(formatPresetLine(p))
	}

	sb.WriteString("\n*Мои пресеты*\n")
	if len(custom) == 0 {
		sb.WriteString("_Пока нет сохранённых пресетов_\n")
	}
	for _, p := range custom {
		sb.WriteString(formatPresetLine(p))
	}

	return sb.String()
}

func formatPresetLine(p models.PresetConfig) string {
	parts := []string{
		models.MarketplaceDisplayName(p.Marketplace),
		models.WarehouseDisplayName(p.Warehouse),
		models.CategoryDisplayName(p.Category),
		FormatDate(p.StartDate) + " - " + FormatDate(p.EndDate),
	}
	return fmt.Sprintf("• *%s*: %s\n", EscapeMarkdown(p.Name), EscapeMarkdown(strings.Join(parts, ", ")))
}

func FormatMetrics(state consumers.MetricsState) string {
	if state.Empty() {
		return "📊 Выберите кампанию в /filters, чтобы увидеть метрики\\."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*📊 Финансовые метрики кампании \\#%d*\n", *state.Scope.CampaignID))
	sb.WriteString(EscapeMarkdown(fmt.Sprintf("%s - %s",
		formatOptionalDate(state.Scope.DateFrom), formatOptionalDate(state.Scope.DateTo))) + "\n\n")

	if state.Loading {
		sb.WriteString("⏳ Загрузка\\.\\.\\.\n")
		return sb.String()
	}

	if state.Err != nil && len(state.Rows) == 0 {
		sb.WriteString("😔 Не удалось загрузить метрики\\. Попробуйте обновить\\.\n")
		return sb.String()
	}

	if len(state.Rows) == 0 {
		sb.WriteString("Нет данных за выбранный период\\.\n")
		return sb.String()
	}

	currency := state.Meta.Currency
	t := state.Totals
	sb.WriteString(fmt.Sprintf("📦 *Артикулов:* %d\n", t.Rows))
	sb.WriteString(fmt.Sprintf("🛍 *Продано:* %d\n", t.SoldCount))
	sb.WriteString(fmt.Sprintf("↩️ *Возвраты:* %d\n", t.RefundCount))
	sb.WriteString(fmt.Sprintf("💵 *Выручка:* %s\n", EscapeMarkdown(FormatMoney(t.SoldRetailAmount, currency))))
	sb.WriteString(fmt.Sprintf("🏦 *К перечислению:* %s\n", EscapeMarkdown(FormatMoney(t.SellerTotal, currency))))
	sb.WriteString(fmt.Sprintf("🧾 *Комиссия:* %s\n", EscapeMarkdown(FormatMoney(t.Commission, currency))))
	sb.WriteString(fmt.Sprintf("⚠️ *Штрафы:* %s\n", EscapeMarkdown(FormatMoney(t.Penalties, currency))))

	if state.Err != nil {
		sb.WriteString("\n_Показаны предыдущие данные, обновление не удалось_\n")
	}

	return sb.String()
}

// FormatMoney renders an amount with digit grouping, e.g. "1 234 567.89 ₽".
func FormatMoney(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	intPart, frac := raw[:len(raw)-3], raw[len(raw)-2:]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}

	return fmt.Sprintf("%s%s.%s %s", sign, grouped.String(), frac, currencySymbol(currency))
}

func currencySymbol(currency string) string {
	switch currency {
	case "", "RUB", "RUR":
		return "₽"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	default:
		return currency
	}
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)

	return replacer.Replace(text)
}
