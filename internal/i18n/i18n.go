// Package i18n provides the Russian and Kazakh strings used across the
// terminal pages. Russian is the default; Kazakh is selected via
// ui.locale in config.yaml or QOYUPOS_LOCALE.
package i18n

import "fmt"

// Locale identifies a supported interface language.
type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleKK Locale = "kk"
)

// ParseLocale normalizes a config value to a supported locale.
func ParseLocale(s string) Locale {
	if s == string(LocaleKK) {
		return LocaleKK
	}
	return LocaleRU
}

// Translator resolves message keys for a fixed locale.
type Translator struct {
	locale Locale
}

// New returns a Translator for the given locale.
func New(locale Locale) *Translator {
	return &Translator{locale: locale}
}

// Locale returns the active locale.
func (t *Translator) Locale() Locale { return t.locale }

// T resolves a message key. Unknown keys are returned as-is so a missing
// translation is visible instead of blank.
func (t *Translator) T(key string) string {
	if t.locale == LocaleKK {
		if s, ok := kk[key]; ok {
			return s
		}
	}
	if s, ok := ru[key]; ok {
		return s
	}
	return key
}

// Tf resolves a key and formats it with args.
func (t *Translator) Tf(key string, args ...interface{}) string {
	return fmt.Sprintf(t.T(key), args...)
}

var ru = map[string]string{
	"app.title":        "Qoyu POS",
	"nav.new_order":    "Новый заказ",
	"nav.orders":       "Заказы",
	"nav.dashboard":    "Статистика",
	"nav.menu":         "Меню",
	"nav.options":      "Опции",
	"nav.display":      "Экран клиента",
	"nav.logout":       "Выйти",

	"auth.login":            "Вход",
	"auth.register":         "Регистрация",
	"auth.name":             "Имя",
	"auth.phone":            "Телефон",
	"auth.password":         "Пароль",
	"auth.submit_login":     "Войти",
	"auth.submit_register":  "Зарегистрироваться",
	"auth.switch_register":  "Нет аккаунта? Регистрация",
	"auth.switch_login":     "Уже есть аккаунт? Вход",
	"auth.failed":           "Не удалось войти",
	"auth.forbidden":        "Недостаточно прав",

	"order.cart":           "Корзина",
	"order.cart_empty":     "Корзина пуста",
	"order.customer_name":  "Имя клиента",
	"order.take_away":      "С собой",
	"order.in_store":       "В зале",
	"order.discount":       "Скидка",
	"order.no_discount":    "Без скидки",
	"order.discount_cats":  "Применяется к категориям",
	"order.mark_category":  "отметить категорию",
	"order.total":          "Итого",
	"order.submit":         "Оформить заказ",
	"order.submitting":     "Отправка...",
	"order.submitted":      "Заказ №%d создан",
	"order.option_needed":  "Выберите обязательные опции",
	"order.add":            "Добавить",
	"order.free":           "Бесплатно",

	"orders.active":     "Активные",
	"orders.closed":     "Закрытые",
	"orders.close":      "Закрыть заказ",
	"orders.empty":      "Нет активных заказов",
	"orders.takeaway":   "с собой",

	"dash.day_sales":    "Продажи за день",
	"dash.month_sales":  "Продажи за месяц",
	"dash.day_orders":   "Заказов за день",
	"dash.month_orders": "Заказов за месяц",
	"dash.by_hour":      "По часам",
	"dash.recent":       "Последние заказы",

	"display.preparing": "ГОТОВИТСЯ",
	"display.ready":     "ГОТОВО",
	"display.welcome":   "Добро пожаловать!",

	"menu.title":         "Управление меню",
	"menu.new_product":   "Новый товар",
	"menu.edit":          "Изменить",
	"menu.delete":        "Удалить",
	"menu.confirm_del":   "Удалить «%s»?",
	"menu.name":          "Название",
	"menu.price":         "Цена",
	"menu.category":      "Категория",
	"menu.image_url":     "Ссылка на фото",
	"menu.description":   "Описание",
	"menu.option_groups": "Группы опций",
	"menu.save":          "Сохранить",
	"menu.cancel":        "Отмена",

	"opts.title":        "Группы опций",
	"opts.new_group":    "Новая группа",
	"opts.new_item":     "Новая опция",
	"opts.single":       "Один вариант",
	"opts.multi":        "Несколько",
	"opts.required":     "Обязательная",
	"opts.size_group":   "Группа размеров",

	"common.loading":    "Загрузка...",
	"common.error":      "Ошибка",
	"common.retry":      "Повторить",
	"common.offline":    "Нет связи с сервером",
	"common.reconnect":  "Переподключение...",
	"common.yes":        "Да",
	"common.no":         "Нет",
	"common.back":       "Назад",
	"common.sound_on":   "Звук вкл",
	"common.sound_off":  "Звук выкл",
	"common.currency":   "₸",
}

var kk = map[string]string{
	"app.title":        "Qoyu POS",
	"nav.new_order":    "Жаңа тапсырыс",
	"nav.orders":       "Тапсырыстар",
	"nav.dashboard":    "Статистика",
	"nav.menu":         "Мәзір",
	"nav.options":      "Опциялар",
	"nav.display":      "Клиент экраны",
	"nav.logout":       "Шығу",

	"auth.login":            "Кіру",
	"auth.register":         "Тіркелу",
	"auth.name":             "Аты",
	"auth.phone":            "Телефон",
	"auth.password":         "Құпия сөз",
	"auth.submit_login":     "Кіру",
	"auth.submit_register":  "Тіркелу",
	"auth.switch_register":  "Аккаунт жоқ па? Тіркелу",
	"auth.switch_login":     "Аккаунт бар ма? Кіру",
	"auth.failed":           "Кіру сәтсіз аяқталды",
	"auth.forbidden":        "Рұқсат жеткіліксіз",

	"order.cart":           "Себет",
	"order.cart_empty":     "Себет бос",
	"order.customer_name":  "Клиенттің аты",
	"order.take_away":      "Өзімен",
	"order.in_store":       "Залда",
	"order.discount":       "Жеңілдік",
	"order.no_discount":    "Жеңілдіксіз",
	"order.discount_cats":  "Санаттарға қолданылады",
	"order.mark_category":  "санатты белгілеу",
	"order.total":          "Барлығы",
	"order.submit":         "Тапсырыс беру",
	"order.submitting":     "Жіберілуде...",
	"order.submitted":      "№%d тапсырыс жасалды",
	"order.option_needed":  "Міндетті опцияларды таңдаңыз",
	"order.add":            "Қосу",
	"order.free":           "Тегін",

	"orders.active":     "Белсенді",
	"orders.closed":     "Жабық",
	"orders.close":      "Тапсырысты жабу",
	"orders.empty":      "Белсенді тапсырыс жоқ",
	"orders.takeaway":   "өзімен",

	"dash.day_sales":    "Күндік сату",
	"dash.month_sales":  "Айлық сату",
	"dash.day_orders":   "Күндік тапсырыс",
	"dash.month_orders": "Айлық тапсырыс",
	"dash.by_hour":      "Сағат бойынша",
	"dash.recent":       "Соңғы тапсырыстар",

	"display.preparing": "ДАЙЫНДАЛУДА",
	"display.ready":     "ДАЙЫН",
	"display.welcome":   "Қош келдіңіз!",

	"menu.title":         "Мәзірді басқару",
	"menu.new_product":   "Жаңа тауар",
	"menu.edit":          "Өзгерту",
	"menu.delete":        "Жою",
	"menu.confirm_del":   "«%s» жою керек пе?",
	"menu.name":          "Атауы",
	"menu.price":         "Бағасы",
	"menu.category":      "Санат",
	"menu.image_url":     "Сурет сілтемесі",
	"menu.description":   "Сипаттама",
	"menu.option_groups": "Опция топтары",
	"menu.save":          "Сақтау",
	"menu.cancel":        "Болдырмау",

	"opts.title":        "Опция топтары",
	"opts.new_group":    "Жаңа топ",
	"opts.new_item":     "Жаңа опция",
	"opts.single":       "Бір нұсқа",
	"opts.multi":        "Бірнеше",
	"opts.required":     "Міндетті",
	"opts.size_group":   "Өлшем тобы",

	"common.loading":    "Жүктелуде...",
	"common.error":      "Қате",
	"common.retry":      "Қайталау",
	"common.offline":    "Сервермен байланыс жоқ",
	"common.reconnect":  "Қайта қосылу...",
	"common.yes":        "Иә",
	"common.no":         "Жоқ",
	"common.back":       "Артқа",
	"common.sound_on":   "Дыбыс қосулы",
	"common.sound_off":  "Дыбыс өшірулі",
	"common.currency":   "₸",
}
