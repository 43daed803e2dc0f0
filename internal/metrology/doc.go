// Package metrology реализует подбор окружностей и оценку отклонения от
// круглости по контуру детали: средняя окружность по МНК, минимальная зона,
// минимальная описанная и максимальная вписанная окружности.
//
// Все функции чистые: не имеют общего изменяемого состояния и безопасны для
// параллельного вызова из нескольких горутин.
package metrology
