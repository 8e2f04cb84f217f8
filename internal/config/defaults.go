package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
	DefaultLogFile  = ""

	DefaultAllowMode = "all"
	DefaultStorePath = "whatsapp.db"

	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiTemperature = 1.0
	DefaultGeminiMaxRetries  = 2
	DefaultGeminiRetryDelay  = 5 // seconds

	DefaultDBPath = "storage.db"

	DefaultKnowledgePath = "data/knowledge.json"
	DefaultFAQPath       = "data/faq.json"

	DefaultRateLimitWindow = 10 * time.Second
	DefaultRateLimitMax    = 3

	DefaultExportDir          = "exports"
	DefaultExportCleanupDelay = 30 * time.Second
)

// DefaultHelp is the static command reference shown by !help.
const DefaultHelp = `📖 *Daftar Perintah*

*Sesi*
!ambil <nomor> - ambil alih chat (mode human)
!selesai <nomor> - kembalikan chat ke mode AI
!list - daftar chat yang sedang di-handle admin

*Order*
!order add <nama>|<harga>|<detail>|<jenis>|[deadline]
!order view [ORD-xxxx] - lihat satu order atau semuanya
!order edit <ORD-xxxx> <field> <nilai baru>
!order delete <ORD-xxxx>
!order export - kirim rekap order (Excel)

Field yang bisa diedit: orderername, price, details, work, status, deadline.
Format deadline: 2006-01-02, 02/01/2006, atau 02-01-2006.`

// DefaultOrderAddUsage is the corrective reply for unparseable !order add input.
const DefaultOrderAddUsage = `⚠️ Format tidak dikenali. Gunakan:

!order add <nama>|<harga>|<detail>|<jenis>|[deadline]

atau per baris:

!order add
<nama>
<harga>
<detail>
<jenis>
[deadline]`

// DefaultMessages holds the default user-facing message texts.
var DefaultMessages = MessagesConfig{
	Welcome:        "Halo! 👋 Saya asisten otomatis di sini.\n\nPertanyaan yang sering diajukan:\n%s\n\nSilakan tanya apa saja, atau ketik *admin* untuk bicara dengan manusia.",
	FAQEmpty:       "Belum ada daftar pertanyaan.",
	Throttle:       "⏳ Kamu mengirim pesan terlalu cepat. Mohon tunggu sebentar ya.",
	HandoffAck:     "🧑‍💼 Baik! Saya hubungkan kamu dengan admin kami...",
	HandoffNotice:  "📩 *Customer %s ingin bicara dengan admin.*",
	AdminJoined:    "🔔 Admin sudah bergabung dalam percakapan ini.",
	AIReturned:     "🤖 Chat kembali ke mode otomatis (AI).",
	TakeoverReply:  "✅ Kamu sekarang meng-handle chat dari %s",
	ResolveReply:   "✅ Chat %s dikembalikan ke mode AI.",
	Forward:        "📩 Dari %s: %s",
	AIError:        "⚠️ Maaf, terjadi kesalahan saat memproses permintaanmu.",
	UnknownCmd:     "❓ Perintah tidak dikenal. Ketik *!help* untuk melihat daftar perintah.",
	Help:           DefaultHelp,
	SessionMissing: "⚠️ Tidak ada sesi untuk %s.",
	ListEmpty:      "Tidak ada user di mode human.",
	ListHeader:     "🧑‍💼 *Chat yang sedang di-handle admin:*",
	OrderUsage:     "⚠️ Subperintah order: add, view, edit, delete, export. Ketik *!help* untuk detail.",
	OrderAddUsage:  DefaultOrderAddUsage,
	OrderSaved:     "✅ Order tersimpan:",
	OrderUpdated:   "✅ Order diperbarui:",
	OrderDeleted:   "🗑️ Order %s dihapus.",
	OrdersEmpty:    "Belum ada order.",
	OrderError:     "⚠️ Terjadi kesalahan saat memproses order.",
	ExportFailed:   "⚠️ Export gagal. Coba lagi nanti.",
	ExportFallback: "⚠️ File tidak bisa dikirim. Tersimpan di: %s",
}

// Default returns a Config populated with every default value. Load
// unmarshals file and environment settings over this baseline.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: DefaultLogLevel,
			JSON:  DefaultLogJSON,
			File:  DefaultLogFile,
		},
		WhatsApp: WhatsAppConfig{
			AllowMode: DefaultAllowMode,
			StorePath: DefaultStorePath,
		},
		Gemini: GeminiConfig{
			ModelName:         DefaultGeminiModel,
			Temperature:       DefaultGeminiTemperature,
			MaxRetries:        DefaultGeminiMaxRetries,
			RetryDelaySeconds: DefaultGeminiRetryDelay,
		},
		Database: DatabaseConfig{
			Path: DefaultDBPath,
		},
		Data: DataConfig{
			KnowledgePath: DefaultKnowledgePath,
			FAQPath:       DefaultFAQPath,
		},
		RateLimit: RateLimitConfig{
			Window: DefaultRateLimitWindow,
			Max:    DefaultRateLimitMax,
		},
		Export: ExportConfig{
			Dir:          DefaultExportDir,
			CleanupDelay: DefaultExportCleanupDelay,
		},
		Messages: DefaultMessages,
	}
}
