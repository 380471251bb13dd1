package service

import "time"

// nowFunc подменяется в тестах для детерминированных проверок дедлайнов
var nowFunc = time.Now
