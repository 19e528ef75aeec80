package locale

import "errors"

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Default is the language used when none was chosen.
const Default = Arabic

var ErrInvalidLanguage = errors.New("invalid language")

func (l Language) String() string {
	return string(l)
}

// Dir returns the text direction for the language.
func (l Language) Dir() string {
	if l == Arabic {
		return "rtl"
	}

	return "ltr"
}

func ParseLanguage(s string) (Language, error) {
	switch s {
	case English.String():
		return English, nil
	case Arabic.String():
		return Arabic, nil
	default:
		return "", ErrInvalidLanguage
	}
}

// Strings is the set of UI labels for one language.
type Strings struct {
	Title        string
	Subtitle     string
	Search       string
	Category     string
	All          string
	OrderNow     string
	Added        string
	Qty          string
	Name         string
	Phone        string
	Note         string
	PlaceOrder   string
	Cancel       string
	Admin        string
	AddProduct   string
	ProductEn    string
	ProductAr    string
	Price        string
	Image        string
	Create       string
	Menu         string
	Empty        string
	SuccessOrder string
	OK           string

	InvalidInput string
	SaveFailed   string
	UploadFailed string
}

var tables = map[Language]Strings{
	English: {
		Title:        "Shawarma Resto",
		Subtitle:     "Fresh • Fast • Tasty",
		Search:       "Search",
		Category:     "Category",
		All:          "All",
		OrderNow:     "Order Now",
		Added:        "Added!",
		Qty:          "Qty",
		Name:         "Your Name",
		Phone:        "Phone",
		Note:         "Note (optional)",
		PlaceOrder:   "Place Order",
		Cancel:       "Cancel",
		Admin:        "Admin Mode",
		AddProduct:   "Add Product",
		ProductEn:    "Product name (English)",
		ProductAr:    "اسم المنتج (عربي)",
		Price:        "Price (SAR)",
		Image:        "Image",
		Create:       "Create",
		Menu:         "Menu",
		Empty:        "No products yet.",
		SuccessOrder: "Order submitted! We'll contact you soon.",
		OK:           "OK",
		InvalidInput: "Please check the highlighted fields and try again.",
		SaveFailed:   "Something went wrong while saving. Please try again.",
		UploadFailed: "The image could not be uploaded. Please try again.",
	},
	Arabic: {
		Title:        "مطعم شاورما",
		Subtitle:     "طازج • سريع • لذيذ",
		Search:       "ابحث",
		Category:     "القسم",
		All:          "الكل",
		OrderNow:     "اطلب الآن",
		Added:        "تم الإضافة!",
		Qty:          "الكمية",
		Name:         "اسمك",
		Phone:        "رقم الهاتف",
		Note:         "ملاحظة (اختياري)",
		PlaceOrder:   "إرسال الطلب",
		Cancel:       "إلغاء",
		Admin:        "وضع الإدارة",
		AddProduct:   "إضافة منتج",
		ProductEn:    "اسم المنتج (إنجليزي)",
		ProductAr:    "اسم المنتج (عربي)",
		Price:        "السعر (ريال)",
		Image:        "صورة",
		Create:       "إنشاء",
		Menu:         "القائمة",
		Empty:        "لا توجد منتجات.",
		SuccessOrder: "تم إرسال الطلب! سنتواصل معك قريبًا.",
		OK:           "حسنًا",
		InvalidInput: "يرجى التحقق من الحقول والمحاولة مرة أخرى.",
		SaveFailed:   "حدث خطأ أثناء الحفظ. يرجى المحاولة مرة أخرى.",
		UploadFailed: "تعذر رفع الصورة. يرجى المحاولة مرة أخرى.",
	},
}

// For returns the string table for the language, falling back to Default.
func For(l Language) Strings {
	if t, ok := tables[l]; ok {
		return t
	}

	return tables[Default]
}
