package bot

const msgHelp = `안녕하세요! 목자훈련 도우미입니다.

이렇게 사용하세요:

1) /lessons — 주차별 강의와 교재
2) /podcasts — 오디오 학습 (AI 낭독)
3) /quiz — 오늘의 퀴즈
4) /textbook <주차> — 교재 읽기 (예: /textbook week1)`

const msgUnknownCommand = `알 수 없는 명령입니다. /help 를 입력해 주세요.`

const msgNoSession = `진행 중인 퀴즈가 없습니다. /quiz 로 시작해 주세요.`

const msgAlreadyAnswered = `이미 답변하셨습니다. 처음 선택한 답만 인정됩니다.`

const msgNotAnswered = `먼저 답을 선택해 주세요.`

const msgOptionOutOfRange = `없는 보기입니다.`

const msgStaleQuestion = `지난 문제의 버튼입니다. 현재 문제에 답해 주세요.`

const msgSessionFinished = `퀴즈가 이미 끝났습니다. /quiz 로 다시 도전해 보세요.`

const msgCorrect = `✅ 정답입니다!`

const msgIncorrect = `❌ 아쉽네요.`

const msgNoLessons = `등록된 강의가 없습니다.`

const msgNoPodcasts = `등록된 팟캐스트가 없습니다.`

const msgUnknownLesson = `강의를 찾을 수 없습니다. /lessons 에서 주차를 확인해 주세요.`

const msgUnknownEpisode = `에피소드를 찾을 수 없습니다.`

const msgEmptyTextbook = `이 주차에는 교재가 없습니다.`

const msgNarrationStarted = `🎧 AI 오디오를 준비하고 있습니다. 잠시만 기다려 주세요...`

const msgNarrationBusy = `이 에피소드는 이미 준비 중입니다.`

const msgAudioUnavailable = `오디오를 생성하지 못했습니다. 잠시 후 다시 시도해 주세요.`

const msgInternalError = `문제가 발생했습니다. 잠시 후 다시 시도해 주세요.`

const btnNext = `다음 문제 ▶`

const btnFinish = `결과 보기 🏁`

const btnRetry = `다시 풀기 🔄`

const btnLessons = `📚 강의`

const btnPodcasts = `🎧 팟캐스트`

const btnQuiz = `📝 퀴즈`

const btnHome = `🏠 처음으로`

const btnPlay = `▶ 듣기`

const btnScript = `📄 대본`

const btnWatch = `▶ 영상 보기`
