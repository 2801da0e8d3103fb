package carousel

import (
	"fmt"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/entity"
	"report-bot-be/pkg/report"
	"report-bot-be/pkg/store"
)

const (
	employeePageSize = 5
	titlePageSize    = 10

	// Page tokens the router recognizes as free text.
	NextEmployeeToken = "次へ社員"
	NextTitleToken    = "次へ帳票"

	// Carousel column limits of the chat platform.
	maxColumnTitle = 40
	maxColumnText  = 60
)

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func nextColumn(token string, page int) dto.CarouselColumn {
	return dto.CarouselColumn{
		Title: "次のページ",
		Text:  "さらに表示します",
		Actions: []dto.Action{{
			Type:  dto.ActionTypeMessage,
			Label: "次へ ▶",
			Text:  fmt.Sprintf("%s %d", token, page),
		}},
	}
}

func toColumns(choices []Choice) []dto.CarouselColumn {
	columns := make([]dto.CarouselColumn, 0, len(choices))
	for _, c := range choices {
		columns = append(columns, dto.CarouselColumn{
			Title: truncate(c.Title, maxColumnTitle),
			Text:  truncate(nonEmpty(c.Text, "選択してください"), maxColumnText),
			Actions: []dto.Action{{
				Type:  dto.ActionTypeMessage,
				Label: c.ActionLabel,
				Text:  c.ActionText,
			}},
		})
	}
	return columns
}

// EmployeeCarousel renders one page of the employee picker. The previously
// selected employee is pinned to the front of the first page.
func EmployeeCarousel(employees []store.EmployeeRef, page int, selectedCode string) dto.Message {
	items := make([]Choice, 0, len(employees))
	for _, e := range employees {
		code := report.PadCode(e.Code)
		items = append(items, Choice{
			Key:         code,
			Title:       fmt.Sprintf("%s %s", code, e.Name),
			Text:        "担当者を選択してください",
			ActionLabel: "選 択",
			ActionText:  e.Code,
		})
	}
	pinned := ""
	if selectedCode != "" {
		pinned = report.PadCode(selectedCode)
	}
	pageItems, hasMore := Paginate(items, page, pinned, employeePageSize)
	columns := toColumns(pageItems)
	if hasMore {
		columns = append(columns, nextColumn(NextEmployeeToken, page+1))
	}
	return dto.CarouselMessage("社員コードのリスト", columns)
}

// TitleCarousel renders one page of report titles in their stored order,
// newest first the way the repository returns them.
func TitleCarousel(rows []entity.Report, page int) dto.Message {
	items := make([]Choice, 0, len(rows))
	for _, r := range rows {
		items = append(items, Choice{
			Key:         r.Name,
			Title:       r.Name,
			Text:        r.WriteDate,
			ActionLabel: "選 択",
			ActionText:  "帳票 " + r.Name,
		})
	}
	pageItems, hasMore := Page(items, page, titlePageSize)
	columns := toColumns(pageItems)
	if hasMore {
		columns = append(columns, nextColumn(NextTitleToken, page+1))
	}
	return dto.CarouselMessage("帳票のリスト", columns)
}

// EntryCarousel renders one page of a single employee's instruction
// artifacts, again in stored order.
func EntryCarousel(entries []report.Entry, page int) dto.Message {
	items := make([]Choice, 0, len(entries))
	for _, e := range entries {
		items = append(items, Choice{
			Key:         e.ArtifactName,
			Title:       e.Title,
			Text:        e.WriteDate,
			ActionLabel: "選 択",
			ActionText:  "帳票:" + e.ArtifactName,
		})
	}
	pageItems, hasMore := Page(items, page, titlePageSize)
	columns := toColumns(pageItems)
	if hasMore {
		columns = append(columns, nextColumn(NextTitleToken, page+1))
	}
	return dto.CarouselMessage("指示書のリスト", columns)
}

// InstructionMenu offers the send or view branch of the instruction track.
func InstructionMenu() dto.Message {
	columns := []dto.CarouselColumn{
		{
			Title: "📤 指示書送付",
			Text:  "指示書ファイルをアップロードします",
			Actions: []dto.Action{{
				Type:  dto.ActionTypeMessage,
				Label: "選 択",
				Text:  "指示書送付",
			}},
		},
		{
			Title: "📂 指示書参照",
			Text:  "保存済みの指示書を確認します",
			Actions: []dto.Action{{
				Type:  dto.ActionTypeMessage,
				Label: "選 択",
				Text:  "指示書参照",
			}},
		},
	}
	return dto.CarouselMessage("指示書メニュー", columns)
}

// ApplicationMenu links out to the leave application form.
func ApplicationMenu(formURL string) dto.Message {
	columns := []dto.CarouselColumn{{
		Title: "📝 休暇申請",
		Text:  "申請フォームを開きます",
		Actions: []dto.Action{{
			Type:  dto.ActionTypeURI,
			Label: "開 く",
			URI:   formURL,
		}},
	}}
	return dto.CarouselMessage("申請メニュー", columns)
}
