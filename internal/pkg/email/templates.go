package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f4f4f5;
            color: #18181b;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e4e4e7;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            color: #0e7490;
            margin: 0;
        }
        h2 {
            color: #18181b;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #52525b;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .btn {
            display: inline-block;
            background: #0e7490;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            font-size: 16px;
            margin: 16px 0;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #a1a1aa;
            font-size: 12px;
        }
        .highlight {
            color: #0e7490;
            font-weight: 600;
        }
        .info-box {
            background: #f4f4f5;
            border-radius: 8px;
            padding: 16px;
            margin: 16px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo">
                <h1>StayHub</h1>
            </div>
            {{.Content}}
        </div>
        <div class="footer">
            <p>© 2026 StayHub</p>
            <p>Вы получили это письмо, потому что оформили бронирование на StayHub</p>
        </div>
    </div>
</body>
</html>
`

// BookingConfirmedTemplate - sent after a booking is stored
const BookingConfirmedTemplate = `
<h2>Бронирование подтверждено</h2>
<p>Здравствуйте, <span class="highlight">{{.GuestName}}</span>!</p>
<p>Номер <strong>"{{.RoomName}}"</strong> забронирован за вами.</p>
<div class="info-box">
    <p><strong>Заезд:</strong> {{.CheckIn}}</p>
    <p><strong>Выезд:</strong> {{.CheckOut}}</p>
    <p><strong>Гостей:</strong> {{.NumberOfPersons}}</p>
    <p><strong>Стоимость:</strong> {{.TotalCost}}</p>
</div>
{{if .CancelUntil}}<p>Бесплатная отмена возможна до {{.CancelUntil}}.</p>{{end}}
<a href="{{.BookingsURL}}" class="btn">Мои бронирования</a>
`

// BookingCancelledTemplate - sent after a booking is cancelled by the guest
const BookingCancelledTemplate = `
<h2>Бронирование отменено</h2>
<p>Здравствуйте, <span class="highlight">{{.GuestName}}</span>!</p>
<p>Бронирование номера <strong>"{{.RoomName}}"</strong> на даты {{.CheckIn}} - {{.CheckOut}} отменено.</p>
<a href="{{.BookingsURL}}" class="btn">Найти другой номер</a>
`
