package dialog

import "fmt"

// Commands and tokens recognized as free text.
const (
	cmdOrder           = "オーダー"
	cmdPerformance     = "実績"
	cmdInstruction     = "指示書"
	cmdApplication     = "申請"
	cmdInstructionSend = "指示書送付"
	cmdInstructionView = "指示書参照"
)

// User-facing reply text.
const (
	msgChooseFromMenu  = "💬 メニューから操作を選んでください。"
	msgUploadGuidance  = "⚠️ 先に「指示書送付」を選んでからファイルを送信し、ファイル名を入力してください。"
	msgSendFileFirst   = "⚠️ 「指示書送付」を選んでからファイルを送信してください。"
	msgNoReports       = "📄 該当する帳票が見つかりませんでした。"
	msgFileNotFound    = "⚠️ ファイルが見つかりません。もう一度確認してください。"
	msgSelectEmpFirst  = "⚠️ 先に社員を選択してください。"
	msgEmployeeLookup  = "⚠️ 社員名の取得に失敗しました。"
	msgBadTitleToken   = "⚠️ 帳票名の形式が正しくありません。もう一度選択してください。"
	msgForbiddenChars  = "⚠️ ファイル名に使えない文字が含まれています。\n使用できない文字： / \\ : * ? \" < > | _"
	msgFilenameTooLong = "⚠️ ファイル名は17文字以内にしてください。\nスペースは無視されます。"
	msgUploadFailed    = "⚠️ アップロードまたは登録に失敗しました。もう一度お試しください。"
	msgRetryLater      = "⚠️ 問題が発生しました。時間をおいて、もう一度お試しください。"
)

func msgReportLink(url string) string {
	return fmt.Sprintf("📎 帳票はこちらです：\n%s", url)
}

func msgUploadDone(url string) string {
	return fmt.Sprintf("📎アップできました。\nこちらからご確認いただけます：\n%s", url)
}

func msgSendInstruction(name string) string {
	return fmt.Sprintf("💬 %sさん、指示書を送ってください。", name)
}

func msgSelectedCode(code string) string {
	return fmt.Sprintf("💬「%s」を選択しました。\n指示書を送ってください。", code)
}
